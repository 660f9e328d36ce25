// Package messaging sends SMS and WhatsApp messages through the gateway and
// records messages sent to contacts.
package messaging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/gratitude-backend/internal/config"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/provider"
)

// DefaultWhatsAppFrom is the gateway sandbox sender used when none is set.
const DefaultWhatsAppFrom = "+14155238886"

type gateway interface {
	Send(ctx context.Context, msg provider.OutboundMessage) (*provider.MessageReceipt, error)
}

type limiter interface {
	Wait(ctx context.Context) error
}

// ContactLog is the slice of the Entry Store used to record sent messages.
type ContactLog interface {
	RecordSentMessage(ctx context.Context, contactID uuid.UUID, msg domain.SentMessage) (*domain.SentMessage, error)
}

// ContactLogFunc returns the contact log scoped to userID.
type ContactLogFunc func(userID string) (ContactLog, error)

type counterVec interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// Service sends messages.
type Service struct {
	log        *slog.Logger
	gateway    gateway
	limiter    limiter
	contacts   ContactLogFunc
	sent       counterVec
	configured bool
	smsFrom    string
	waFrom     string
	now        func() time.Time
}

// NewService creates a messaging service. A nil gateway or missing
// credentials make every Send fail with ErrBackendUnavailable.
func NewService(
	logger *slog.Logger,
	cfg config.MessagingConfig,
	gw gateway,
	lim limiter,
	contacts ContactLogFunc,
	sent counterVec,
) *Service {
	waFrom := stripChannelPrefix(cfg.WhatsAppFrom)
	if waFrom == "" {
		waFrom = DefaultWhatsAppFrom
	}
	return &Service{
		log:        logger.With("service", "messaging"),
		gateway:    gw,
		limiter:    lim,
		contacts:   contacts,
		sent:       sent,
		configured: gw != nil && cfg.Configured(),
		smsFrom:    stripChannelPrefix(cfg.SMSFrom),
		waFrom:     waFrom,
		now:        time.Now,
	}
}

func stripChannelPrefix(addr string) string {
	return strings.TrimPrefix(strings.TrimSpace(addr), whatsAppPrefix)
}
