package form

import (
	"errors"
	"fmt"
)

// FieldName identifies an input or checkbox on a page.
type FieldName string

const (
	FieldEmail           FieldName = "email"
	FieldPassword        FieldName = "password"
	FieldFullName        FieldName = "name"
	FieldConfirmPassword FieldName = "confirmPassword"
	FieldRemember        FieldName = "remember"
	FieldTerms           FieldName = "terms"
)

// ErrUnknownField is returned for fields the page does not have.
var ErrUnknownField = errors.New("unknown field")

func unknownField(name FieldName) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, string(name))
}

// Validity is the visual state of a field.
type Validity int

const (
	Untouched Validity = iota
	Invalid
	Valid
)

func (v Validity) String() string {
	switch v {
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "untouched"
	}
}

func (v Validity) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// FieldState is what the page knows about one tracked field.
type FieldState struct {
	RawValue     string   `json:"value"`
	Validity     Validity `json:"validity"`
	ErrorMessage string   `json:"error,omitempty"`
}

// Indicator is the rendered password strength line.
type Indicator struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
	Color string `json:"color,omitempty"`
}

// Attempt is the snapshot taken by a single submit.
type Attempt struct {
	Fields   map[FieldName]string
	AllValid bool
}
