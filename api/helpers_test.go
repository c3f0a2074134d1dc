package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Goofygiraffe06/authform/api"
	"github.com/Goofygiraffe06/authform/internal/auth"
	"github.com/Goofygiraffe06/authform/internal/config"
	"github.com/Goofygiraffe06/authform/internal/controller"
	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/workerpool"
	"github.com/Goofygiraffe06/authform/store"
	"github.com/stretchr/testify/require"
)

type fieldView struct {
	Value    string `json:"value"`
	Validity string `json:"validity"`
	Error    string `json:"error"`
}

type noticeView struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

type pageResp struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	State string `json:"state"`
	View  struct {
		Fields   map[string]fieldView `json:"fields"`
		Checked  map[string]bool      `json:"checked"`
		Strength *struct {
			Text  string `json:"text"`
			Class string `json:"class"`
			Color string `json:"color"`
		} `json:"strength"`
		Focus    string      `json:"focus"`
		Busy     bool        `json:"busy"`
		Notice   *noticeView `json:"notice"`
		Location string      `json:"location"`
	} `json:"view"`
	Settled bool   `json:"settled"`
	Target  string `json:"target"`
	Error   string `json:"error"`
}

type harness struct {
	t      *testing.T
	pages  *api.Pages
	router http.Handler
	cookie *http.Cookie
}

type harnessOpts struct {
	latency  time.Duration
	maxViews int
	maxBody  int64
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	if o.latency == 0 {
		o.latency = 20 * time.Millisecond
	}
	if o.maxViews == 0 {
		o.maxViews = 100
	}
	if o.maxBody == 0 {
		o.maxBody = 4 << 10
	}

	key, err := auth.GenerateSigningKey()
	require.NoError(t, err)
	auth.SetSigningKey(key)

	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pool := workerpool.New("test-submit", 2, 16)
	t.Cleanup(pool.Close)

	pages := api.NewPages(time.Minute, o.maxViews, controller.NewSettleRegistry(),
		form.NewSimulatedSubmitter(pool, o.latency),
		func(clientID string) form.LocalStorage { return db.Scope(clientID) },
		api.PageConfig{
			PlaceholderDelay: time.Hour,
			LoginEntry:       "/login",
			SignupEntry:      "/signup",
		},
	)
	t.Cleanup(pages.Close)

	router := api.NewRouter(pages, api.RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxBodyBytes:   o.maxBody,
		AwaitTimeout:   2 * time.Second,
	})
	return &harness{t: t, pages: pages, router: router}
}

// do sends a request as the harness's browser, keeping its identity cookie.
func (h *harness) do(method, path string, body interface{}) (*httptest.ResponseRecorder, pageResp) {
	h.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(h.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == config.ClientCookieName() {
			h.cookie = c
		}
	}

	var res pageResp
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(rr.Body.Bytes(), &res), rr.Body.String())
	}
	return rr, res
}

// stranger is a second browser sharing the same server.
func (h *harness) stranger() *harness {
	return &harness{t: h.t, pages: h.pages, router: h.router}
}
