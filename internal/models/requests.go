package models

// InputRequest is a keystroke (or paste) into a text field.
type InputRequest struct {
	Field string `json:"field" validate:"required,oneof=email password name confirmPassword"`
	Value string `json:"value" validate:"max=1024"`
}

// FieldRequest names the field a blur or visibility toggle applies to.
type FieldRequest struct {
	Field string `json:"field" validate:"required,oneof=email password name confirmPassword"`
}

// CheckRequest sets the remember-me or terms box.
type CheckRequest struct {
	Field   string `json:"field" validate:"required,oneof=remember terms"`
	Checked *bool  `json:"checked" validate:"required"`
}

// ActionRequest is a click on one of the login page's links or buttons.
type ActionRequest struct {
	Action   string `json:"action" validate:"required,oneof=signup forgot social"`
	Provider string `json:"provider" validate:"required_if=Action social"`
}
