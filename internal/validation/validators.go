package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// TagEmail is the struct tag validating a candidate email address.
	TagEmail = "screening_email"
	// TagPhone is the struct tag validating a candidate phone number.
	TagPhone = "screening_phone"

	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// New returns a validator instance with the screening validators registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return ValidEmail(val)
	})
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return ValidPhone(val)
	})
}

// ValidEmail requires exactly one "@", a non-empty local part and a domain
// containing a "." that neither starts nor ends with it.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Count(s, "@") != 1 {
		return false
	}

	if strings.IndexFunc(s, unicode.IsSpace) != -1 {
		return false
	}

	local, domain, _ := strings.Cut(s, "@")
	if local == "" || domain == "" {
		return false
	}

	if !strings.Contains(domain, ".") || strings.Contains(domain, "..") {
		return false
	}

	return !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// ValidPhone accepts digits with common separators and 7 to 15 digits overall.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	for _, r := range s {
		if unicode.IsDigit(r) {
			continue
		}
		if !isPhoneSeparator(r) {
			return false
		}
	}

	n := len(PhoneDigits(s))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// PhoneDigits strips everything but ASCII digits.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPhoneSeparator(r rune) bool {
	switch r {
	case ' ', '-', '.', '(', ')', '+', '/':
		return true
	default:
		return false
	}
}
