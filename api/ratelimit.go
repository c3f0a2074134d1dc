package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/models"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/Goofygiraffe06/authform/store/ephemeral"
	"golang.org/x/time/rate"
)

// idle limiters are forgotten after this long
const limiterTTL = 10 * time.Minute

// ClientLimiter hands each browser its own token bucket.
type ClientLimiter struct {
	rps     rate.Limit
	burst   int
	mu      sync.Mutex
	buckets *ephemeral.Store[*rate.Limiter]
}

func NewClientLimiter(rps float64, burst int, maxClients int) *ClientLimiter {
	return &ClientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: ephemeral.New[*rate.Limiter]("rate-limits", limiterTTL, ephemeral.WithMaxSize[*rate.Limiter](maxClients)),
	}
}

// Allow reports whether clientID may make another request now. When the
// bucket table is full new clients are refused until idle buckets expire.
func (cl *ClientLimiter) Allow(clientID string) bool {
	cl.mu.Lock()
	lim, ok := cl.buckets.Get(clientID)
	if !ok {
		lim = rate.NewLimiter(cl.rps, cl.burst)
		if err := cl.buckets.Set(clientID, lim); err != nil {
			cl.mu.Unlock()
			logging.WarnLog("Rate limit table full; refusing new client [%s]", utils.ShortID(clientID))
			return false
		}
	}
	cl.mu.Unlock()
	return lim.Allow()
}

func (cl *ClientLimiter) Close() { cl.buckets.Close() }

// Middleware rejects requests over the caller's budget with 429. It must run
// after ClientIdentity.
func (cl *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ClientID(r.Context())
		if !cl.Allow(id) {
			logging.WarnLog("Rate limit exceeded [%s]", utils.ShortID(id))
			w.Header().Set("Retry-After", "1")
			respondJSON(w, http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
