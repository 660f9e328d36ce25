// Package twilio sends SMS and WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/provider"
)

const defaultBaseURL = "https://api.twilio.com"

// ErrNotConfigured is returned when the account credentials are missing.
var ErrNotConfigured = errors.New("twilio: credentials not configured")

// APIError is an error response from the Twilio API.
type APIError struct {
	Status   int    `json:"status"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio: status %d code %d: %s", e.Status, e.Code, e.Message)
}

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// Provider posts messages to the Twilio Messages resource.
type Provider struct {
	baseURL    string
	accountSID string
	authToken  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for the public Twilio API.
func NewProvider(accountSID, authToken string, logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, accountSID, authToken, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL, accountSID, authToken string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "twilio"),
	}
}

// Send posts one message. A non-2xx response is returned as *APIError.
func (p *Provider) Send(ctx context.Context, msg provider.OutboundMessage) (*provider.MessageReceipt, error) {
	if p.accountSID == "" || p.authToken == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, url.PathEscape(p.accountSID))
	form := url.Values{}
	form.Set("From", msg.From)
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)
	payload := form.Encode()

	newRequest := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(p.accountSID, p.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	p.log.DebugContext(ctx, "twilio request", slog.String("to", msg.To))

	resp, err := p.doWithRetry(ctx, newRequest, msg.To)
	if err != nil {
		p.log.ErrorContext(ctx, "twilio request failed", slog.String("to", msg.To), slog.String("error", err.Error()))
		return nil, fmt.Errorf("twilio: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("twilio: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		p.log.WarnContext(ctx, "twilio rejected message",
			slog.String("to", msg.To),
			slog.Int("status", apiErr.Status),
			slog.Int("code", apiErr.Code),
		)
		return nil, apiErr
	}

	var out messageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("twilio: decode json: %w", err)
	}

	p.log.DebugContext(ctx, "twilio response",
		slog.String("sid", out.SID),
		slog.String("status", out.Status),
	)

	return &provider.MessageReceipt{SID: out.SID, Status: out.Status, To: out.To}, nil
}

// doWithRetry executes the request and retries once only when the
// connection could not be established. Message creation is not
// idempotent: a 5xx or a timeout may arrive after Twilio accepted the
// message, so those are returned as they are.
func (p *Provider) doWithRetry(ctx context.Context, newRequest func() (*http.Request, error), to string) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err == nil || !isDialError(err) || ctx.Err() != nil {
		return resp, err
	}

	p.log.WarnContext(ctx, "twilio retry", slog.String("to", to), slog.String("reason", err.Error()))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	req, err = newRequest()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return p.httpClient.Do(req)
}

// isDialError reports whether err happened before any request bytes were
// sent.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
