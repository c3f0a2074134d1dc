package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/authform/internal/auth"
	"github.com/Goofygiraffe06/authform/internal/config"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/models"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ctxKey int

const clientIDKey ctxKey = iota

// ClientID returns the browser identity attached by ClientIdentity.
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// ClientIdentity resolves the browser behind a request from its signed
// cookie, minting and setting a new identity when the cookie is missing or
// does not verify.
func ClientIdentity(next http.Handler) http.Handler {
	cookieName := config.ClientCookieName()
	ttl := config.ClientTokenExpiresIn()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if c, err := r.Cookie(cookieName); err == nil {
			if id, err := auth.ParseClientToken(c.Value); err == nil {
				clientID = id
			}
		}

		if clientID == "" {
			clientID = auth.NewClientID()
			token, err := auth.IssueClientToken(clientID)
			if err != nil {
				respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to issue client identity"})
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(ttl / time.Second),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			logging.DebugLog("New client identity [%s]", utils.ShortID(clientID))
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDKey, clientID)))
	})
}

// RequestLogger writes one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
