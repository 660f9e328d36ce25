package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/provider/twilio"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/provider"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

const whatsAppPrefix = "whatsapp:"

// errNotConfigured is returned when gateway credentials are missing.
var errNotConfigured = fmt.Errorf("messaging not configured: %w", domain.ErrBackendUnavailable)

// Send delivers one message. When in.ContactID is set the message is also
// recorded under that contact for the calling user.
func (s *Service) Send(ctx context.Context, in SendInput) (*domain.SendResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if !s.configured {
		return nil, errNotConfigured
	}

	to := domain.NormalizePhone(in.To)
	if to == "" {
		return nil, domain.NewValidationError("to", "invalid phone number")
	}

	msg := provider.OutboundMessage{From: s.smsFrom, To: to, Body: in.Body}
	if in.Channel == domain.ChannelWhatsApp {
		msg.From = whatsAppPrefix + s.waFrom
		msg.To = whatsAppPrefix + to
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("messaging.Send: wait for rate limit: %w", err)
		}
	}

	receipt, err := s.gateway.Send(ctx, msg)
	if err != nil {
		s.count(in.Channel, "failed")
		mapped := mapGatewayError(err)
		s.log.WarnContext(ctx, "message send failed",
			slog.String("channel", in.Channel.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("messaging.Send: %w", mapped)
	}
	s.count(in.Channel, "sent")

	s.log.InfoContext(ctx, "message sent",
		slog.String("channel", in.Channel.String()),
		slog.String("sid", receipt.SID),
		slog.String("status", receipt.Status),
	)

	if in.ContactID != nil {
		s.recordSent(ctx, in, receipt)
	}

	return &domain.SendResult{
		MessageID: receipt.SID,
		Status:    receipt.Status,
		To:        to,
		Channel:   in.Channel,
	}, nil
}

// recordSent stores the message under its contact. The message has already
// left the gateway, so a failure here is logged rather than returned.
func (s *Service) recordSent(ctx context.Context, in SendInput, receipt *provider.MessageReceipt) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok || s.contacts == nil {
		s.log.WarnContext(ctx, "sent message not recorded: no user in context")
		return
	}

	contactLog, err := s.contacts(userID)
	if err == nil {
		_, err = contactLog.RecordSentMessage(ctx, *in.ContactID, domain.SentMessage{
			Channel:           in.Channel,
			Body:              in.Body,
			ProviderMessageID: receipt.SID,
			Status:            receipt.Status,
			SentAt:            s.now().UTC(),
		})
	}
	if err != nil {
		s.log.ErrorContext(ctx, "record sent message",
			slog.String("contact_id", in.ContactID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) count(ch domain.Channel, status string) {
	if s.sent != nil {
		s.sent.WithLabelValues(ch.String(), status).Inc()
	}
}

// mapGatewayError translates gateway failures into domain errors.
func mapGatewayError(err error) error {
	if errors.Is(err, twilio.ErrNotConfigured) {
		return errNotConfigured
	}

	var apiErr *twilio.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{
			Category: categoryFor(apiErr.Code),
			Code:     apiErr.Code,
			Message:  apiErr.Message,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.ProviderError{Category: domain.ProviderErrorGeneric, Message: err.Error()}
}

func categoryFor(code int) domain.ProviderErrorCategory {
	switch code {
	case 21211:
		return domain.ProviderErrorInvalidNumber
	case 21608:
		return domain.ProviderErrorUnverifiedNumber
	case 63007:
		return domain.ProviderErrorRecipientNotOptedIn
	case 21606:
		return domain.ProviderErrorChannelMismatch
	case 63016:
		return domain.ProviderErrorRecipientUnreachable
	default:
		return domain.ProviderErrorGeneric
	}
}

// BirthdayMessage is the greeting sent to a contact on their birthday.
func BirthdayMessage(name string) string {
	return fmt.Sprintf("Happy Birthday, %s! 🎂🎉 Wishing you all the best on your special day. Hope it's filled with joy, love, and wonderful memories!", name)
}
