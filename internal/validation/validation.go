// Package validation holds the field rules shared by the login and signup
// pages. Rules are pure: they report a Result and never touch page state.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Goofygiraffe06/authform/internal/strength"
	"github.com/go-playground/validator/v10"
)

// Kind classifies a failed rule.
type Kind int

const (
	OK Kind = iota
	MissingField
	MalformedFormat
	TooShort
	WeakCredential
	Mismatch
	TermsNotAccepted
)

var kindNames = [...]string{
	OK:               "ok",
	MissingField:     "missing_field",
	MalformedFormat:  "malformed_format",
	TooShort:         "too_short",
	WeakCredential:   "weak_credential",
	Mismatch:         "mismatch",
	TermsNotAccepted: "terms_not_accepted",
}

func (k Kind) String() string {
	if k < OK || k > TermsNotAccepted {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText lets Kind travel as its name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is the outcome of one rule. Message is empty when Kind is OK.
type Result struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
}

func (r Result) Valid() bool { return r.Kind == OK }

func fail(k Kind, msg string) Result { return Result{Kind: k, Message: msg} }

// MinNameLength is counted in characters, not bytes.
const MinNameLength = 2

// MinSignupScore is the strength score a new password must reach.
const MinSignupScore = 3

// jsSpace is the whitespace class browsers use for \s, which is wider than RE2's.
const jsSpace = `\s\v\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	emailRe = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)
	nameRe  = regexp.MustCompile(`^[a-zA-Z` + jsSpace + `]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("formemail", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates a request model using the shared validator, including the
// formemail and alphaspace tags.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// IsEmail reports whether value has the local@domain.tld shape.
func IsEmail(value string) bool {
	return validate.Var(value, "formemail") == nil
}

// Email checks value as given; callers trim when the page does.
func Email(value string) Result {
	if value == "" {
		return fail(MissingField, "Email is required")
	}
	if !IsEmail(value) {
		return fail(MalformedFormat, "Please enter a valid email address")
	}
	return Result{}
}

// Name trims value, then checks presence, length and character set in that order.
func Name(value string) Result {
	name := strings.TrimSpace(value)
	if name == "" {
		return fail(MissingField, "Name is required")
	}
	if utf8.RuneCountInString(name) < MinNameLength {
		return fail(TooShort, "Name must be at least 2 characters")
	}
	if validate.Var(name, "alphaspace") != nil {
		return fail(MalformedFormat, "Name can only contain letters and spaces")
	}
	return Result{}
}

// LoginPassword only enforces the historical minimum length, so existing
// weaker passwords still authenticate.
func LoginPassword(value string) Result {
	if value == "" {
		return fail(MissingField, "Password is required")
	}
	if utf8.RuneCountInString(value) < strength.MinLength {
		return fail(TooShort, "Password must be at least 6 characters long")
	}
	return Result{}
}

// SignupPassword additionally requires a strength score of MinSignupScore.
func SignupPassword(value string) Result {
	if value == "" {
		return fail(MissingField, "Password is required")
	}
	if utf8.RuneCountInString(value) < strength.MinLength {
		return fail(TooShort, "Password must be at least 6 characters")
	}
	if strength.Estimate(value).Score < MinSignupScore {
		return fail(WeakCredential, "Password is too weak. Add more character types.")
	}
	return Result{}
}

// ConfirmPassword is valid iff confirm is non-empty and equal to password.
func ConfirmPassword(password, confirm string) Result {
	if confirm == "" {
		return fail(MissingField, "Please confirm your password")
	}
	if password != confirm {
		return fail(Mismatch, "Passwords do not match")
	}
	return Result{}
}

// Terms is surfaced as a blocking alert rather than an inline error.
func Terms(accepted bool) Result {
	if !accepted {
		return fail(TermsNotAccepted, "Please agree to the Terms and Privacy Policy to continue")
	}
	return Result{}
}
