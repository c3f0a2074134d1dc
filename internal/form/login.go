package form

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authform/internal/strength"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/Goofygiraffe06/authform/internal/validation"
	"go.uber.org/zap"
)

// LoginController drives one view of the login page.
type LoginController struct {
	mu        sync.Mutex
	view      Presenter
	submitter Submitter
	opts      *options
	log       *zap.Logger

	email           string
	password        string
	remember        bool
	passwordVisible bool

	machine     Machine
	placeholder *time.Timer
	closed      bool
}

// NewLogin builds the controller for a fresh page view and prefills the
// remembered email, if any.
func NewLogin(view Presenter, submitter Submitter, opts ...Option) *LoginController {
	o := newOptions(opts)
	c := &LoginController{
		view:      view,
		submitter: submitter,
		opts:      o,
		log:       o.logger.With(zap.String("page", "login")),
	}

	c.view.RenderField(FieldEmail, FieldState{})
	c.view.RenderField(FieldPassword, FieldState{})
	c.view.SetChecked(FieldRemember, false)
	c.view.SetPasswordVisible(FieldPassword, false)

	if o.storage != nil {
		saved, ok, err := o.storage.GetItem(RememberEmailKey)
		switch {
		case err != nil:
			c.log.Warn("remembered email lookup failed", zap.Error(err))
		case ok && saved != "":
			c.email = saved
			c.remember = true
			c.view.RenderField(FieldEmail, FieldState{RawValue: saved})
			c.view.SetChecked(FieldRemember, true)
			c.log.Debug("remembered email prefilled", zap.String("email", utils.HashEmail(saved)))
		}
	}
	return c
}

// feedback gives live visual state without inline text: empty fields are
// untouched, the rest valid or invalid.
func feedback(value string, ok bool) FieldState {
	switch {
	case value == "":
		return FieldState{}
	case ok:
		return FieldState{RawValue: value, Validity: Valid}
	default:
		return FieldState{RawValue: value, Validity: Invalid}
	}
}

func (c *LoginController) renderEmail() {
	c.renderEmailResult(validation.IsEmail(c.email))
}

func (c *LoginController) renderEmailResult(ok bool) {
	c.view.RenderField(FieldEmail, feedback(c.email, ok))
}

func (c *LoginController) renderPassword() {
	ok := validation.LoginPassword(c.password).Valid()
	c.view.RenderField(FieldPassword, feedback(c.password, ok))
	if c.password != "" && !ok {
		lvl := strength.LoginIndicator(c.password)
		c.view.RenderStrength(&Indicator{Text: lvl.Text, Color: lvl.Color})
	} else {
		c.view.RenderStrength(nil)
	}
}

// Input records a keystroke in the email or password field.
func (c *LoginController) Input(field FieldName, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldEmail:
		c.email = value
		c.renderEmail()
	case FieldPassword:
		c.password = value
		c.renderPassword()
	default:
		return unknownField(field)
	}
	return nil
}

// Blur re-renders the field's visual state.
func (c *LoginController) Blur(field FieldName) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldEmail:
		c.renderEmail()
	case FieldPassword:
		c.renderPassword()
	default:
		return unknownField(field)
	}
	return nil
}

// Check sets the remember-me box.
func (c *LoginController) Check(field FieldName, checked bool) error {
	if field != FieldRemember {
		return unknownField(field)
	}
	c.mu.Lock()
	c.remember = checked
	c.view.SetChecked(FieldRemember, checked)
	c.mu.Unlock()
	return nil
}

// SetRemember is Check(FieldRemember, on).
func (c *LoginController) SetRemember(on bool) {
	_ = c.Check(FieldRemember, on)
}

// TogglePasswordVisibility flips the password field between masked and plain.
func (c *LoginController) TogglePasswordVisibility(field FieldName) error {
	if field != FieldPassword {
		return unknownField(field)
	}
	c.mu.Lock()
	c.passwordVisible = !c.passwordVisible
	c.view.SetPasswordVisible(FieldPassword, c.passwordVisible)
	c.mu.Unlock()
	return nil
}

// Validate runs the field's rule against its trimmed (email) or raw
// (password) value and renders the outcome.
func (c *LoginController) Validate(field FieldName) (validation.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldEmail:
		r := validation.Email(strings.TrimSpace(c.email))
		c.renderEmailResult(r.Valid())
		return r, nil
	case FieldPassword:
		r := validation.LoginPassword(c.password)
		c.renderPassword()
		return r, nil
	}
	return validation.Result{}, unknownField(field)
}

func (c *LoginController) reject(msg string, focus FieldName) (State, error) {
	_ = c.machine.Reject()
	c.view.Notify(Notice{Kind: NoticeError, Message: msg})
	if focus != "" {
		c.view.Focus(focus)
	}
	c.log.Debug("login rejected", zap.String("reason", msg))
	return c.machine.State(), nil
}

// Submit validates in priority order (missing fields, email format, password
// length) and, when everything passes, hands the credentials to the
// submitter. The returned state is Rejected or Submitting.
func (c *LoginController) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.machine.Begin(); err != nil {
		return c.machine.State(), err
	}

	email := strings.TrimSpace(c.email)
	password := c.password

	if email == "" || password == "" {
		return c.reject("Please fill in all fields", "")
	}
	if !validation.IsEmail(email) {
		return c.reject("Please enter a valid email address", FieldEmail)
	}
	if r := validation.LoginPassword(password); !r.Valid() {
		return c.reject(r.Message, FieldPassword)
	}

	attempt := Attempt{
		Fields:   map[FieldName]string{FieldEmail: email},
		AllValid: true,
	}
	if err := c.machine.Submit(); err != nil {
		return c.machine.State(), err
	}
	c.view.SetBusy(true)
	c.log.Info("login submitting", zap.String("email", utils.HashEmail(attempt.Fields[FieldEmail])))

	task := c.submitter.SubmitCredentials(context.WithoutCancel(ctx), Credentials{
		Purpose:  PurposeLogin,
		Email:    email,
		Password: password,
	})
	go c.await(task, email)

	return c.machine.State(), nil
}

func (c *LoginController) await(task *Task, email string) {
	<-task.Done()

	c.mu.Lock()
	state := c.complete(task.Err(), email)
	c.mu.Unlock()

	if c.opts.onSettled != nil {
		c.opts.onSettled(state)
	}
}

func (c *LoginController) complete(err error, email string) State {
	c.view.SetBusy(false)

	if err != nil {
		_ = c.machine.Fail()
		c.view.Notify(Notice{Kind: NoticeError, Message: "Login failed. Please try again."})
		c.log.Error("login submission failed", zap.Error(err))
		return c.machine.State()
	}

	_ = c.machine.Succeed()
	c.view.Notify(Notice{Kind: NoticeSuccess, Message: "Login successful! Redirecting..."})

	if c.remember && c.opts.storage != nil {
		if err := c.opts.storage.SetItem(RememberEmailKey, email); err != nil {
			c.log.Warn("remembering email failed", zap.Error(err))
		}
	}

	c.clearForm()

	if !c.closed {
		c.placeholder = time.AfterFunc(c.opts.placeholderDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if !c.closed {
				c.view.Notify(Notice{Kind: NoticeInfo, Message: "Dashboard page will be implemented next!", Blocking: true})
			}
		})
	}

	c.log.Info("login succeeded", zap.String("email", utils.HashEmail(email)))
	return c.machine.State()
}

func (c *LoginController) clearForm() {
	c.email = ""
	c.password = ""
	c.remember = false
	c.view.RenderField(FieldEmail, FieldState{})
	c.view.RenderField(FieldPassword, FieldState{})
	c.view.SetChecked(FieldRemember, false)
	c.view.RenderStrength(nil)
}

// Reset clears the form. An outstanding submission still completes.
func (c *LoginController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearForm()
	c.machine.Reset()
}

// OpenSignup follows the signup link, handing over the email when it is
// already well formed.
func (c *LoginController) OpenSignup() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.opts.signupEntry
	if email := strings.TrimSpace(c.email); validation.IsEmail(email) {
		target += "?" + url.Values{"email": {email}}.Encode()
	}
	c.view.Navigate(target)
	return target
}

// ForgotPassword shows the placeholder for the reset flow.
func (c *LoginController) ForgotPassword() {
	c.mu.Lock()
	c.view.Notify(Notice{Kind: NoticeInfo, Message: "Password reset feature coming soon!"})
	c.mu.Unlock()
}

// SocialLogin shows the placeholder for provider p.
func (c *LoginController) SocialLogin(p Provider) error {
	if p.String() == "" {
		return ErrUnknownProvider
	}
	c.mu.Lock()
	c.view.Notify(Notice{Kind: NoticeInfo, Message: p.String() + " login will be implemented later!"})
	c.mu.Unlock()
	return nil
}

func (c *LoginController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// Close stops the placeholder timer. Safe to call more than once.
func (c *LoginController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.placeholder != nil {
		c.placeholder.Stop()
		c.placeholder = nil
	}
}
