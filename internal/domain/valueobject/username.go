package valueobject

import (
	"regexp"
	"strings"

	"github.com/finman/user-service/pkg/apperrors"
)

// usernamePattern is compiled once at startup and shared read-only across all
// constructions.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// Username is a normalized, validated username: 3-20 characters, alphanumeric
// and underscore only, stored lowercased.
type Username struct {
	value string
}

func NewUsername(raw string) (Username, error) {
	if strings.TrimSpace(raw) == "" {
		return Username{}, apperrors.NewValidation("username", "username empty")
	}
	trimmed := strings.TrimSpace(raw)
	if !usernamePattern.MatchString(trimmed) {
		return Username{}, apperrors.NewValidation("username", "invalid username format")
	}
	return Username{value: strings.ToLower(trimmed)}, nil
}

func (u Username) Value() string { return u.value }

func (u Username) String() string { return u.value }

func (u Username) Equals(other Username) bool { return u.value == other.value }
