package valueobject

import (
	"strings"

	"github.com/finman/user-service/pkg/apperrors"
)

const maxNameLength = 50

// PersonName is a trimmed first or last name, at most 50 characters.
type PersonName struct {
	value string
}

func NewPersonName(raw string) (PersonName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PersonName{}, apperrors.NewValidation("name", "name empty")
	}
	if len([]rune(trimmed)) > maxNameLength {
		return PersonName{}, apperrors.NewValidation("name", "name too long")
	}
	return PersonName{value: trimmed}, nil
}

func (n PersonName) Value() string { return n.value }

func (n PersonName) String() string { return n.value }

func (n PersonName) Equals(other PersonName) bool { return n.value == other.value }
