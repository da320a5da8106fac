// Package validation implements input validation for registration and
// feedback operations: email shape, password policy, feedback text bounds,
// and pagination bounds. All rejections wrap common.ErrorValidation with a
// human-readable reason.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/feedbackhub/feedbackhub/internal/common"
)

const (
	FeedbackTextMinLength = 1
	FeedbackTextMaxLength = 1000
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are throwaway email providers rejected at registration.
var disposableDomains = map[string]struct{}{
	"tempmail.com":      {},
	"throwaway.email":   {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"mailinator.com":    {},
	"trash-mail.com":    {},
}

// weakPasswords are common passwords rejected regardless of policy.
var weakPasswords = map[string]struct{}{
	"password": {}, "12345678": {}, "password123": {}, "qwerty123": {},
	"abc123456": {}, "letmein123": {}, "welcome123": {}, "admin123": {},
	"user12345": {}, "test12345": {}, "password1": {}, "123456789": {},
	"qwertyuiop": {}, "123123123": {}, "aaaaaaaa": {}, "11111111": {},
	"00000000": {}, "iloveyou": {}, "sunshine": {}, "princess": {},
}

// PasswordPolicy holds the active password thresholds. It is constructed
// once from configuration and passed in explicitly.
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// PolicyDescription is the fixed-shape answer to the password-policy query,
// used by clients for pre-validation.
type PolicyDescription struct {
	MinLength      int  `json:"min_length"`
	RequireUpper   bool `json:"require_uppercase"`
	RequireLower   bool `json:"require_lowercase"`
	RequireDigit   bool `json:"require_digit"`
	RequireSpecial bool `json:"require_special"`
}

// Describe returns the active thresholds.
func (p PasswordPolicy) Describe() PolicyDescription {
	return PolicyDescription{
		MinLength:      p.MinLength,
		RequireUpper:   p.RequireUpper,
		RequireLower:   p.RequireLower,
		RequireDigit:   p.RequireDigit,
		RequireSpecial: p.RequireSpecial,
	}
}

// Validate checks password against the policy and the weak-password list.
func (p PasswordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, p.MinLength)
	}
	if p.RequireUpper && !strings.ContainsFunc(password, isUpper) {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", common.ErrorValidation)
	}
	if p.RequireLower && !strings.ContainsFunc(password, isLower) {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", common.ErrorValidation)
	}
	if p.RequireDigit && !strings.ContainsFunc(password, isDigit) {
		return fmt.Errorf("%w: password must contain at least one digit", common.ErrorValidation)
	}
	if p.RequireSpecial && !strings.ContainsAny(password, `!@#$%^&*(),.?":{}|<>`) {
		return fmt.Errorf("%w: password must contain at least one special character", common.ErrorValidation)
	}
	if _, weak := weakPasswords[strings.ToLower(password)]; weak {
		return fmt.Errorf("%w: this password is too common, please choose a more unique password", common.ErrorValidation)
	}
	return nil
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// ValidateEmail checks the address shape and rejects disposable domains.
func ValidateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	if _, blocked := disposableDomains[domain]; blocked {
		return fmt.Errorf("%w: disposable email addresses are not allowed", common.ErrorValidation)
	}
	return nil
}

// ValidateFeedbackText enforces the 1-1000 character bounds.
func ValidateFeedbackText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < FeedbackTextMinLength || n > FeedbackTextMaxLength {
		return fmt.Errorf("%w: text must be %d-%d characters", common.ErrorValidation,
			FeedbackTextMinLength, FeedbackTextMaxLength)
	}
	return nil
}

// ValidatePagination enforces skip >= 0 and 1 <= limit <= maxLimit.
func ValidatePagination(skip, limit, maxLimit int) error {
	if skip < 0 {
		return fmt.Errorf("%w: skip must be non-negative", common.ErrorValidation)
	}
	if limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1", common.ErrorValidation)
	}
	if limit > maxLimit {
		return fmt.Errorf("%w: limit must not exceed %d", common.ErrorValidation, maxLimit)
	}
	return nil
}
