package validation

import (
	"fmt"
	"regexp"
)

const maxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks that the address looks deliverable. It is intentionally
// loose; the address is only proven by signing in with it.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
