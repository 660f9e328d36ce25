package profile

import (
	"strings"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

const (
	maxEmailLength       = 254
	maxDisplayNameLength = 255
	maxPhoneLength       = 32
)

// SignInInput is the identity the provider vouched for.
type SignInInput struct {
	UserID      string
	Email       string
	DisplayName string
}

func (i SignInInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.UserID) == "" {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if email := strings.TrimSpace(i.Email); email != "" {
		if len(email) > maxEmailLength {
			errs = append(errs, domain.FieldError{Field: "email", Message: "too long"})
		} else if !strings.Contains(email, "@") {
			errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
		}
	}
	if len(strings.TrimSpace(i.DisplayName)) > maxDisplayNameLength {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// normalizePhoneInput returns nil for a blank phone (clear), the normalized
// number otherwise.
func normalizePhoneInput(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if len(raw) > maxPhoneLength {
		return nil, domain.NewValidationError("phone", "too long")
	}
	phone := domain.NormalizePhone(raw)
	if phone == "" {
		return nil, domain.NewValidationError("phone", "must contain digits")
	}
	return &phone, nil
}
