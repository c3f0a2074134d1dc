package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the HTTP-layer settings read from config.
type RouterConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	AwaitTimeout   time.Duration
	// Limiter meters /pages per browser; nil disables it.
	Limiter        *ClientLimiter
}

func NewRouter(pages *Pages, cfg RouterConfig) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(LimitBody(cfg.MaxBodyBytes))

	router.Get("/health", HealthHandler())

	router.Route("/pages", func(r chi.Router) {
		r.Use(ClientIdentity)
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Post("/login", OpenLoginHandler(pages))
		r.Post("/signup", OpenSignupHandler(pages))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", SnapshotHandler(pages))
			r.Post("/input", InputHandler(pages))
			r.Post("/blur", BlurHandler(pages))
			r.Post("/toggle", ToggleHandler(pages))
			r.Post("/check", CheckHandler(pages))
			r.Post("/action", ActionHandler(pages))
			r.Post("/submit", SubmitHandler(pages))
			r.Get("/await", AwaitHandler(pages, cfg.AwaitTimeout))
			r.Post("/reset", ResetHandler(pages))
			r.Post("/dismiss", DismissHandler(pages))
		})
	})

	return router
}
