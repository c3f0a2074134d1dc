package form

import (
	"context"
	"strings"
	"sync"

	"github.com/Goofygiraffe06/authform/internal/strength"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/Goofygiraffe06/authform/internal/validation"
	"go.uber.org/zap"
)

// signupOrder is the order fields are validated and searched for the first error.
var signupOrder = [...]FieldName{FieldFullName, FieldEmail, FieldPassword, FieldConfirmPassword}

// SignupController drives one view of the signup page.
type SignupController struct {
	mu        sync.Mutex
	view      Presenter
	submitter Submitter
	opts      *options
	log       *zap.Logger

	name     string
	email    string
	password string
	confirm  string
	terms    bool
	visible  map[FieldName]bool

	machine Machine
}

// NewSignup builds the controller for a fresh page view. A non-empty
// prefillEmail is placed in the email field and validated immediately.
func NewSignup(view Presenter, submitter Submitter, prefillEmail string, opts ...Option) *SignupController {
	o := newOptions(opts)
	c := &SignupController{
		view:      view,
		submitter: submitter,
		opts:      o,
		log:       o.logger.With(zap.String("page", "signup")),
		visible:   map[FieldName]bool{FieldPassword: false, FieldConfirmPassword: false},
	}
	c.clearForm()

	if prefillEmail != "" {
		c.email = prefillEmail
		c.validateLocked(FieldEmail)
		c.log.Debug("email prefilled", zap.String("email", utils.HashEmail(prefillEmail)))
	}
	return c
}

func (c *SignupController) clearForm() {
	c.name, c.email, c.password, c.confirm = "", "", "", ""
	c.terms = false
	for _, f := range signupOrder {
		c.view.RenderField(f, FieldState{})
	}
	c.view.SetChecked(FieldTerms, false)
	for f := range c.visible {
		c.visible[f] = false
		c.view.SetPasswordVisible(f, false)
	}
	c.view.RenderStrength(nil)
}

func (c *SignupController) value(field FieldName) string {
	switch field {
	case FieldFullName:
		return c.name
	case FieldEmail:
		return c.email
	case FieldPassword:
		return c.password
	case FieldConfirmPassword:
		return c.confirm
	}
	return ""
}

// validateLocked runs and renders one field's rule.
func (c *SignupController) validateLocked(field FieldName) (validation.Result, error) {
	var r validation.Result
	switch field {
	case FieldFullName:
		r = validation.Name(c.name)
	case FieldEmail:
		r = validation.Email(strings.TrimSpace(c.email))
	case FieldPassword:
		r = validation.SignupPassword(c.password)
	case FieldConfirmPassword:
		r = validation.ConfirmPassword(c.password, c.confirm)
	default:
		return validation.Result{}, unknownField(field)
	}
	render(c.view, field, c.value(field), r)
	return r, nil
}

func (c *SignupController) updateStrength() {
	if c.password == "" {
		c.view.RenderStrength(nil)
		return
	}
	est := strength.Estimate(c.password)
	c.view.RenderStrength(&Indicator{Text: est.Text(), Class: est.Class()})
}

// Input records a keystroke and validates the field as the user types.
// Editing the password also refreshes the strength indicator and, when a
// confirmation was entered, re-checks it.
func (c *SignupController) Input(field FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldFullName:
		c.name = value
	case FieldEmail:
		c.email = value
	case FieldPassword:
		c.password = value
	case FieldConfirmPassword:
		c.confirm = value
	default:
		return unknownField(field)
	}

	if _, err := c.validateLocked(field); err != nil {
		return err
	}
	if field == FieldPassword {
		c.updateStrength()
		if c.confirm != "" {
			_, _ = c.validateLocked(FieldConfirmPassword)
		}
	}
	return nil
}

// Blur validates the field the user just left.
func (c *SignupController) Blur(field FieldName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.validateLocked(field)
	return err
}

// Validate runs one field's rule and renders the outcome.
func (c *SignupController) Validate(field FieldName) (validation.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked(field)
}

// Check sets the terms acceptance box.
func (c *SignupController) Check(field FieldName, checked bool) error {
	if field != FieldTerms {
		return unknownField(field)
	}
	c.mu.Lock()
	c.terms = checked
	c.view.SetChecked(FieldTerms, checked)
	c.mu.Unlock()
	return nil
}

// SetTerms is Check(FieldTerms, accepted).
func (c *SignupController) SetTerms(accepted bool) {
	_ = c.Check(FieldTerms, accepted)
}

// TogglePasswordVisibility flips one of the two password fields.
func (c *SignupController) TogglePasswordVisibility(field FieldName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	vis, ok := c.visible[field]
	if !ok {
		return unknownField(field)
	}
	c.visible[field] = !vis
	c.view.SetPasswordVisible(field, !vis)
	return nil
}

// Submit runs every rule in field order. Any failure rejects the attempt:
// the first invalid input gets focus, and unaccepted terms raise a blocking
// alert. Otherwise the credentials go to the submitter.
func (c *SignupController) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.machine.Begin(); err != nil {
		return c.machine.State(), err
	}

	attempt := Attempt{Fields: make(map[FieldName]string, len(signupOrder)), AllValid: true}
	var firstInvalid FieldName
	for _, f := range signupOrder {
		attempt.Fields[f] = c.value(f)
		r, _ := c.validateLocked(f)
		if !r.Valid() {
			attempt.AllValid = false
			if firstInvalid == "" {
				firstInvalid = f
			}
		}
	}
	if r := validation.Terms(c.terms); !r.Valid() {
		attempt.AllValid = false
		c.view.Notify(Notice{Kind: NoticeError, Message: r.Message, Blocking: true})
	}

	if !attempt.AllValid {
		_ = c.machine.Reject()
		if firstInvalid != "" {
			c.view.Focus(firstInvalid)
		}
		c.log.Debug("signup rejected", zap.String("first_invalid", string(firstInvalid)))
		return c.machine.State(), nil
	}

	if err := c.machine.Submit(); err != nil {
		return c.machine.State(), err
	}
	c.view.SetBusy(true)

	creds := Credentials{
		Purpose:  PurposeSignup,
		Name:     strings.TrimSpace(c.name),
		Email:    strings.TrimSpace(c.email),
		Password: c.password,
	}
	c.log.Info("signup submitting", zap.String("email", utils.HashEmail(creds.Email)))

	task := c.submitter.SubmitCredentials(context.WithoutCancel(ctx), creds)
	go c.await(task, creds.Email)

	return c.machine.State(), nil
}

func (c *SignupController) await(task *Task, email string) {
	<-task.Done()

	c.mu.Lock()
	state := c.complete(task.Err(), email)
	c.mu.Unlock()

	if c.opts.onSettled != nil {
		c.opts.onSettled(state)
	}
}

func (c *SignupController) complete(err error, email string) State {
	c.view.SetBusy(false)

	if err != nil {
		_ = c.machine.Fail()
		c.view.Notify(Notice{Kind: NoticeError, Message: "Account creation failed. Please try again.", Blocking: true})
		c.log.Error("signup submission failed", zap.Error(err))
		return c.machine.State()
	}

	_ = c.machine.Succeed()
	c.view.Notify(Notice{Kind: NoticeSuccess, Message: "Account created successfully! Please login.", Blocking: true})
	c.view.Navigate(c.opts.loginEntry)
	c.log.Info("signup succeeded", zap.String("email", utils.HashEmail(email)))
	return c.machine.State()
}

// Reset clears the form. An outstanding submission still completes.
func (c *SignupController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearForm()
	c.machine.Reset()
}

func (c *SignupController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// Close has nothing to release; it exists so both pages share Controller.
func (c *SignupController) Close() {}
