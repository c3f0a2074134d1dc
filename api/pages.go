package api

import (
	"errors"
	"time"

	"github.com/Goofygiraffe06/authform/internal/controller"
	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/Goofygiraffe06/authform/store/ephemeral"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	KindLogin  = "login"
	KindSignup = "signup"
)

var (
	ErrPageNotFound      = errors.New("page view not found")
	ErrUnsupportedAction = errors.New("action not supported on this page")
)

// PageView is one open login or signup page: its controller and the
// in-memory page the controller renders into.
type PageView struct {
	ID       string
	Kind     string
	ClientID string
	Page     *form.Page
	Ctrl     form.Controller
}

func (pv *PageView) close() {
	pv.Ctrl.Close()
	pv.Page.Close()
}

// Login returns the login controller, or ErrUnsupportedAction on a signup view.
func (pv *PageView) Login() (*form.LoginController, error) {
	lc, ok := pv.Ctrl.(*form.LoginController)
	if !ok {
		return nil, ErrUnsupportedAction
	}
	return lc, nil
}

// StorageFunc returns the local storage of one browser.
type StorageFunc func(clientID string) form.LocalStorage

// PageConfig holds what every new controller is built with.
type PageConfig struct {
	NoticeLifetime   time.Duration
	PlaceholderDelay time.Duration
	LoginEntry       string
	SignupEntry      string
}

// Pages opens page views and keeps them in a sliding-TTL store. An evicted
// view has its timers stopped and its long-polls released.
type Pages struct {
	views     *ephemeral.Store[*PageView]
	registry  *controller.SettleRegistry
	submitter form.Submitter
	storage   StorageFunc
	cfg       PageConfig
}

func NewPages(ttl time.Duration, maxViews int, registry *controller.SettleRegistry, submitter form.Submitter, storage StorageFunc, cfg PageConfig) *Pages {
	p := &Pages{
		registry:  registry,
		submitter: submitter,
		storage:   storage,
		cfg:       cfg,
	}
	p.views = ephemeral.New[*PageView]("page-views", ttl,
		ephemeral.WithMaxSize[*PageView](maxViews),
		ephemeral.WithOnEvict(func(id string, pv *PageView) {
			pv.close()
			registry.Delete(id)
			logging.DebugLog("Page view [%s] closed", utils.ShortID(id))
		}),
	)
	return p
}

func (p *Pages) options(id, kind, clientID string) []form.Option {
	opts := []form.Option{
		form.WithOnSettled(func(s form.State) { p.registry.Notify(id, s) }),
		form.WithLogger(logging.With(
			zap.String("page_id", utils.ShortID(id)),
			zap.String("client", utils.ShortID(clientID)),
		)),
	}
	// zero values keep the controller defaults
	if p.cfg.PlaceholderDelay > 0 {
		opts = append(opts, form.WithPlaceholderDelay(p.cfg.PlaceholderDelay))
	}
	if p.cfg.LoginEntry != "" {
		opts = append(opts, form.WithLoginEntry(p.cfg.LoginEntry))
	}
	if p.cfg.SignupEntry != "" {
		opts = append(opts, form.WithSignupEntry(p.cfg.SignupEntry))
	}
	if p.storage != nil && kind == KindLogin {
		opts = append(opts, form.WithStorage(p.storage(clientID)))
	}
	return opts
}

// OpenLogin creates a login view for clientID.
func (p *Pages) OpenLogin(clientID string) (*PageView, error) {
	id := uuid.NewString()
	page := form.NewPage(p.cfg.NoticeLifetime)
	ctrl := form.NewLogin(page, p.submitter, p.options(id, KindLogin, clientID)...)
	return p.put(&PageView{ID: id, Kind: KindLogin, ClientID: clientID, Page: page, Ctrl: ctrl})
}

// OpenSignup creates a signup view for clientID, prefilling email when set.
func (p *Pages) OpenSignup(clientID, email string) (*PageView, error) {
	id := uuid.NewString()
	page := form.NewPage(p.cfg.NoticeLifetime)
	ctrl := form.NewSignup(page, p.submitter, email, p.options(id, KindSignup, clientID)...)
	return p.put(&PageView{ID: id, Kind: KindSignup, ClientID: clientID, Page: page, Ctrl: ctrl})
}

func (p *Pages) put(pv *PageView) (*PageView, error) {
	if err := p.views.Set(pv.ID, pv); err != nil {
		pv.close()
		return nil, err
	}
	logging.DebugLog("Page view [%s] opened (%s)", utils.ShortID(pv.ID), pv.Kind)
	return pv, nil
}

// Get returns the view id if it belongs to clientID.
func (p *Pages) Get(id, clientID string) (*PageView, error) {
	pv, ok := p.views.Get(id)
	if !ok || pv.ClientID != clientID {
		return nil, ErrPageNotFound
	}
	return pv, nil
}

// Registry is where long-polls on these views park.
func (p *Pages) Registry() *controller.SettleRegistry { return p.registry }

func (p *Pages) Len() int { return p.views.Len() }

// Close evicts every open view.
func (p *Pages) Close() { p.views.Close() }
