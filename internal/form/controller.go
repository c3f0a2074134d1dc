package form

import (
	"context"
	"time"

	"github.com/Goofygiraffe06/authform/internal/validation"
	"go.uber.org/zap"
)

// LocalStorage is the browser's durable key-value store as seen by one page.
type LocalStorage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// RememberEmailKey holds the email a user asked the login page to remember.
const RememberEmailKey = "rememberEmail"

// Controller is the surface shared by the login and signup pages.
type Controller interface {
	Input(field FieldName, value string) error
	Blur(field FieldName) error
	Check(field FieldName, checked bool) error
	TogglePasswordVisibility(field FieldName) error
	Validate(field FieldName) (validation.Result, error)
	Submit(ctx context.Context) (State, error)
	Reset()
	State() State
	Close()
}

// SettleFunc observes a submission reaching a final state.
type SettleFunc func(State)

type options struct {
	storage          LocalStorage
	placeholderDelay time.Duration
	loginEntry       string
	signupEntry      string
	onSettled        SettleFunc
	logger           *zap.Logger
}

// Option configures a controller.
type Option func(*options)

// WithStorage gives the login page its remembered-email storage.
func WithStorage(s LocalStorage) Option { return func(o *options) { o.storage = s } }

// WithPlaceholderDelay sets the pause before the post-login placeholder notice.
func WithPlaceholderDelay(d time.Duration) Option {
	return func(o *options) { o.placeholderDelay = d }
}

// WithLoginEntry sets where signup navigates after success.
func WithLoginEntry(path string) Option { return func(o *options) { o.loginEntry = path } }

// WithSignupEntry sets where the login page's signup link goes.
func WithSignupEntry(path string) Option { return func(o *options) { o.signupEntry = path } }

// WithOnSettled registers fn to run after each submission resolves.
func WithOnSettled(fn SettleFunc) Option { return func(o *options) { o.onSettled = fn } }

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

func newOptions(opts []Option) *options {
	o := &options{
		placeholderDelay: 1500 * time.Millisecond,
		loginEntry:       "/login",
		signupEntry:      "/signup",
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func render(p Presenter, name FieldName, raw string, r validation.Result) {
	if r.Valid() {
		p.RenderField(name, FieldState{RawValue: raw, Validity: Valid})
		return
	}
	p.RenderField(name, FieldState{RawValue: raw, Validity: Invalid, ErrorMessage: r.Message})
}

var (
	_ Controller = (*LoginController)(nil)
	_ Controller = (*SignupController)(nil)
	_ Presenter  = (*Page)(nil)
)
