package users

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254

	// ReservedUsername collides with the /users/me route.
	ReservedUsername = "me"
)

// Letters and digits in any script, matching the Unicode word charset the
// upstream clients already rely on.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidateUsername checks the username against the allowed charset, the
// length limit and the reserved value.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLen)
	}
	if username == ReservedUsername {
		return fmt.Errorf("username %q is reserved", ReservedUsername)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and @/./+/-/_")
	}
	return nil
}
