package valueobject

import (
	"net/mail"
	"strings"

	"github.com/finman/user-service/pkg/apperrors"
)

// Email is a normalized, validated email address. The zero value is invalid;
// NewEmail is the only way to obtain a usable instance.
type Email struct {
	value string
}

// NewEmail trims and lowercases raw and validates it as an RFC mailbox.
func NewEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, apperrors.NewValidation("email", "email empty")
	}
	trimmed := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return Email{}, apperrors.NewValidation("email", "invalid email format")
	}
	return Email{value: strings.ToLower(trimmed)}, nil
}

func (e Email) Value() string { return e.value }

func (e Email) String() string { return e.value }

// Equals compares by normalized value.
func (e Email) Equals(other Email) bool { return e.value == other.value }
