// Package strength scores passwords for the signup and login strength
// indicators.
package strength

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest password either page accepts.
const MinLength = 6

// Factor is one independent property a password may satisfy.
type Factor int

const (
	Length Factor = iota
	Lowercase
	Uppercase
	Digit
	Symbol
)

var factorNames = [...]string{
	Length:    "at least 6 characters",
	Lowercase: "lowercase letter",
	Uppercase: "uppercase letter",
	Digit:     "number",
	Symbol:    "special character",
}

// String returns the name shown in the "missing:" hint.
func (f Factor) String() string {
	if f < Length || f > Symbol {
		return "unknown"
	}
	return factorNames[f]
}

// Label is the signup indicator's verdict.
type Label int

const (
	TooShort Label = iota
	Weak
	Fair
	Good
	Strong
	VeryStrong
)

var labelTexts = [...]string{
	TooShort:   "Password too short",
	Weak:       "Weak",
	Fair:       "Fair",
	Good:       "Good",
	Strong:     "Strong",
	VeryStrong: "Very Strong",
}

func (l Label) String() string {
	if l < TooShort || l > VeryStrong {
		return ""
	}
	return labelTexts[l]
}

var (
	lowerRe  = regexp.MustCompile(`[a-z]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*]`)
)

// Result is derived from a single password value and never stored.
type Result struct {
	Score   int
	Missing []Factor
	Label   Label
	short   bool
}

// Estimate scores password on the five factors. A password shorter than
// MinLength is labelled TooShort whatever its score.
func Estimate(password string) Result {
	checks := [...]struct {
		f  Factor
		ok bool
	}{
		{Length, utf8.RuneCountInString(password) >= MinLength},
		{Lowercase, lowerRe.MatchString(password)},
		{Uppercase, upperRe.MatchString(password)},
		{Digit, digitRe.MatchString(password)},
		{Symbol, symbolRe.MatchString(password)},
	}

	var r Result
	for _, c := range checks {
		if c.ok {
			r.Score++
		} else {
			r.Missing = append(r.Missing, c.f)
		}
	}

	r.short = !checks[0].ok
	if r.short {
		r.Label = TooShort
	} else {
		r.Label = Label(r.Score)
	}
	return r
}

// Text is the indicator line, with the missing factors appended once the
// length requirement is met.
func (r Result) Text() string {
	text := "Password strength: " + r.Label.String()
	if len(r.Missing) > 0 && !r.short {
		names := make([]string, len(r.Missing))
		for i, f := range r.Missing {
			names[i] = f.String()
		}
		text += fmt.Sprintf(" (missing: %s)", strings.Join(names, ", "))
	}
	return text
}

// Class is the presentation class for the indicator.
func (r Result) Class() string {
	switch r.Label {
	case TooShort, Weak, Fair:
		return "strength-weak"
	case Good:
		return "strength-medium"
	case Strong:
		return "strength-strong"
	case VeryStrong:
		return "strength-very-strong"
	}
	return ""
}
