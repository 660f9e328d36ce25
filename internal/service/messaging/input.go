package messaging

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// MaxBodyLength is the longest body the gateway accepts, in characters.
const MaxBodyLength = 1600

// SendInput describes one outbound message. An empty Channel means SMS.
type SendInput struct {
	To        string
	Body      string
	Channel   domain.Channel
	ContactID *uuid.UUID
}

func (i *SendInput) Validate() error {
	var errs []domain.FieldError

	if i.Channel == "" {
		i.Channel = domain.ChannelSMS
	}
	if !i.Channel.IsValid() {
		errs = append(errs, domain.FieldError{Field: "channel", Message: "must be sms or whatsapp"})
	}
	if strings.TrimSpace(i.To) == "" {
		errs = append(errs, domain.FieldError{Field: "to", Message: "required"})
	}
	if strings.TrimSpace(i.Body) == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	} else if utf8.RuneCountInString(i.Body) > MaxBodyLength {
		errs = append(errs, domain.FieldError{Field: "body", Message: "must be at most 1600 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
