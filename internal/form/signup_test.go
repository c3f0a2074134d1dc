package form

import (
	"context"
	"testing"
	"time"

	"github.com/Goofygiraffe06/authform/internal/validation"
	"github.com/Goofygiraffe06/authform/internal/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignupFixture(t *testing.T, prefill string, opts ...Option) (*SignupController, *Page, *manualSubmitter) {
	t.Helper()
	page := NewPage(time.Minute)
	sub := &manualSubmitter{}
	c := NewSignup(page, sub, prefill, opts...)
	t.Cleanup(func() {
		c.Close()
		page.Close()
	})
	return c, page, sub
}

func fillSignup(t *testing.T, c *SignupController, name, email, password, confirm string, terms bool) {
	t.Helper()
	require.NoError(t, c.Input(FieldFullName, name))
	require.NoError(t, c.Input(FieldEmail, email))
	require.NoError(t, c.Input(FieldPassword, password))
	require.NoError(t, c.Input(FieldConfirmPassword, confirm))
	c.SetTerms(terms)
}

func TestSignupStartsClean(t *testing.T) {
	_, page, _ := newSignupFixture(t, "")
	v := page.Snapshot()
	for _, f := range []FieldName{FieldFullName, FieldEmail, FieldPassword, FieldConfirmPassword} {
		assert.Equal(t, Untouched, v.Fields[f].Validity, f)
	}
	assert.False(t, v.Checked[FieldTerms])
	assert.Nil(t, v.Strength)
}

func TestSignupPrefillValidatesEmail(t *testing.T) {
	_, page, _ := newSignupFixture(t, "ada@example.com")
	assert.Equal(t, Valid, page.Field(FieldEmail).Validity)
	assert.Equal(t, "ada@example.com", page.Field(FieldEmail).RawValue)

	_, page, _ = newSignupFixture(t, "not-an-email")
	st := page.Field(FieldEmail)
	assert.Equal(t, Invalid, st.Validity)
	assert.Equal(t, "Please enter a valid email address", st.ErrorMessage)
}

func TestSignupInlineErrors(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")

	require.NoError(t, c.Input(FieldFullName, "A"))
	assert.Equal(t, "Name must be at least 2 characters", page.Field(FieldFullName).ErrorMessage)
	require.NoError(t, c.Input(FieldFullName, "Al"))
	assert.Equal(t, Valid, page.Field(FieldFullName).Validity)
	assert.Empty(t, page.Field(FieldFullName).ErrorMessage)

	require.NoError(t, c.Input(FieldPassword, "abcdefgh"))
	assert.Equal(t, "Password is too weak. Add more character types.", page.Field(FieldPassword).ErrorMessage)
	ind := page.Snapshot().Strength
	require.NotNil(t, ind)
	assert.Equal(t, "Password strength: Fair (missing: uppercase letter, number, special character)", ind.Text)
	assert.Equal(t, "strength-weak", ind.Class)

	require.NoError(t, c.Input(FieldPassword, ""))
	assert.Nil(t, page.Snapshot().Strength)
	assert.Equal(t, "Password is required", page.Field(FieldPassword).ErrorMessage)
}

func TestSignupBlurValidates(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")
	require.NoError(t, c.Blur(FieldEmail))
	assert.Equal(t, "Email is required", page.Field(FieldEmail).ErrorMessage)
	require.NoError(t, c.Blur(FieldConfirmPassword))
	assert.Equal(t, "Please confirm your password", page.Field(FieldConfirmPassword).ErrorMessage)
	assert.ErrorIs(t, c.Blur(FieldRemember), ErrUnknownField)
}

func TestSignupPasswordChangeInvalidatesConfirmation(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")

	require.NoError(t, c.Input(FieldPassword, "Abcdef1$"))
	require.NoError(t, c.Input(FieldConfirmPassword, "Abcdef1$"))
	assert.Equal(t, Valid, page.Field(FieldConfirmPassword).Validity)

	// only the password is edited
	require.NoError(t, c.Input(FieldPassword, "Abcdef1$x"))
	st := page.Field(FieldConfirmPassword)
	assert.Equal(t, Invalid, st.Validity)
	assert.Equal(t, "Passwords do not match", st.ErrorMessage)

	r, err := c.Validate(FieldConfirmPassword)
	require.NoError(t, err)
	assert.Equal(t, validation.Mismatch, r.Kind)
}

func TestSignupEmptyConfirmationNotRevalidated(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")
	require.NoError(t, c.Input(FieldPassword, "Abcdef1$"))
	assert.Equal(t, Untouched, page.Field(FieldConfirmPassword).Validity)
}

func TestSignupTermsBlockSubmission(t *testing.T) {
	c, page, sub := newSignupFixture(t, "")
	fillSignup(t, c, "Al", "a@b.co", "Abcdef1$", "Abcdef1$", false)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Rejected, state)
	assert.Zero(t, sub.count())

	v := page.Snapshot()
	assert.False(t, v.Busy, "no loading indicator")
	require.NotNil(t, v.Notice)
	assert.True(t, v.Notice.Blocking)
	assert.Equal(t, "Please agree to the Terms and Privacy Policy to continue", v.Notice.Message)
	assert.Empty(t, v.Focus, "no inline field to focus")
	for _, f := range signupOrder {
		assert.Equal(t, Valid, v.Fields[f].Validity, f)
	}
}

func TestSignupFocusesFirstInvalidField(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")
	fillSignup(t, c, "Al", "a@b", "weak", "", true)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Rejected, state)

	v := page.Snapshot()
	assert.Equal(t, FieldEmail, v.Focus)
	assert.Equal(t, "Please enter a valid email address", v.Fields[FieldEmail].ErrorMessage)
	assert.Equal(t, "Password must be at least 6 characters", v.Fields[FieldPassword].ErrorMessage)
	assert.Equal(t, "Please confirm your password", v.Fields[FieldConfirmPassword].ErrorMessage)
	assert.Nil(t, v.Notice)
}

func TestSignupSubmitSuccessNavigatesOnce(t *testing.T) {
	settled := &settleRecorder{}
	c, page, sub := newSignupFixture(t, "", WithLoginEntry("/login"), WithOnSettled(settled.record))
	fillSignup(t, c, " Al ", "a@b.co", "Abcdef1$", "Abcdef1$", true)

	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Submitting, state)
	assert.True(t, page.Snapshot().Busy)

	creds, task := sub.last()
	assert.Equal(t, Credentials{Purpose: PurposeSignup, Name: "Al", Email: "a@b.co", Password: "Abcdef1$"}, creds)

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	task.Resolve(nil)
	require.Eventually(t, func() bool { return c.State() == Succeeded }, time.Second, 5*time.Millisecond)

	v := page.Snapshot()
	assert.False(t, v.Busy)
	assert.Equal(t, "/login", v.Location)
	assert.Equal(t, 1, v.Navigations)
	require.NotNil(t, v.Notice)
	assert.Equal(t, "Account created successfully! Please login.", v.Notice.Message)
	assert.Equal(t, 1, settled.count())
}

func TestSignupTogglePasswordVisibility(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")
	require.NoError(t, c.TogglePasswordVisibility(FieldConfirmPassword))
	v := page.Snapshot()
	assert.True(t, v.PasswordVisible[FieldConfirmPassword])
	assert.False(t, v.PasswordVisible[FieldPassword])
	assert.ErrorIs(t, c.TogglePasswordVisibility(FieldEmail), ErrUnknownField)
}

func TestSignupResetAfterRejection(t *testing.T) {
	c, page, _ := newSignupFixture(t, "")
	fillSignup(t, c, "A", "a@b.co", "x", "y", true)
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	c.Reset()
	assert.Equal(t, Idle, c.State())
	v := page.Snapshot()
	assert.Equal(t, Untouched, v.Fields[FieldFullName].Validity)
	assert.False(t, v.Checked[FieldTerms])
}

func TestSignupEndToEndWithSimulatedBackend(t *testing.T) {
	pool := workerpool.New("submit", 1, 4)
	defer pool.Close()

	page := NewPage(time.Minute)
	defer page.Close()
	settled := &settleRecorder{}
	c := NewSignup(page, NewSimulatedSubmitter(pool, 30*time.Millisecond), "", WithOnSettled(settled.record))

	fillSignup(t, c, "Al", "a@b.co", "Abcdef1$", "Abcdef1$", true)
	state, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Submitting, state)
	assert.Zero(t, page.Snapshot().Navigations)

	require.Eventually(t, func() bool { return settled.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Succeeded, c.State())
	assert.Equal(t, 1, page.Snapshot().Navigations)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, page.Snapshot().Navigations, "navigation happens exactly once")
}
