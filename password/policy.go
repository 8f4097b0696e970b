package password

import (
	"fmt"
	"unicode"
)

// Policy is the minimum-strength requirement applied to every new password.
type Policy struct {
	MinLength        int
	RequireMixedCase bool
}

// Validate returns a descriptive error when password fails the policy. The
// Engine maps any policy failure to its weak-password sentinel; the detail
// here is for audit metadata only.
func (p Policy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password shorter than %d bytes", p.MinLength)
	}
	if !p.RequireMixedCase {
		return nil
	}

	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasUpper || !hasLower {
		return fmt.Errorf("password must contain both upper and lower case characters")
	}

	return nil
}
