package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goofygiraffe06/authform/api"
	"github.com/Goofygiraffe06/authform/internal/auth"
	"github.com/Goofygiraffe06/authform/internal/config"
	"github.com/Goofygiraffe06/authform/internal/controller"
	"github.com/Goofygiraffe06/authform/internal/form"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/manager"
	"github.com/Goofygiraffe06/authform/store"
)

func main() {
	f, err := logging.InitLogger(config.LogPath())
	if err != nil {
		// no logger yet to report through
		panic("Failed to initialize logger: " + err.Error())
	}
	defer f.Close()
	defer logging.Sync()

	logging.InfoLog("Starting authform server")

	auth.InitSigningKey()

	// Secure SQLite DB file if it exists
	dbFile := config.DBPath()
	if _, err := os.Stat(dbFile); err == nil {
		if err := os.Chmod(dbFile, 0600); err != nil {
			logging.ErrorLog("Failed to set restrictive permissions on %s: %v", dbFile, err)
		} else {
			logging.DebugLog("Permissions on %s set to 0600", dbFile)
		}
	}

	localStorage, err := store.NewSQLiteStore(dbFile)
	if err != nil {
		logging.FatalLog("Failed to connect to DB: %v", err)
	}
	defer localStorage.Close()
	logging.InfoLog("Connected to SQLite database: %s", dbFile)

	mgr := manager.NewWorkManager()
	defer mgr.Close()

	submitter := form.NewSimulatedSubmitter(mgr.SubmitPool(), config.SubmitLatency())
	pages := api.NewPages(
		config.PageViewTTL(),
		config.MaxPageViews(),
		controller.NewSettleRegistry(),
		submitter,
		func(clientID string) form.LocalStorage {
			return mgr.Storage(localStorage.Scope(clientID))
		},
		api.PageConfig{
			NoticeLifetime:   config.NoticeLifetime(),
			PlaceholderDelay: config.PlaceholderDelay(),
			LoginEntry:       config.LoginEntry(),
			SignupEntry:      config.SignupEntry(),
		},
	)
	defer pages.Close()

	limiter := api.NewClientLimiter(config.RateLimitRPS(), config.RateLimitBurst(), config.RateLimitMaxClients())
	defer limiter.Close()

	router := api.NewRouter(pages, api.RouterConfig{
		AllowedOrigins: config.CORSAllowedOrigins(),
		MaxBodyBytes:   config.MaxRequestBodyBytes(),
		AwaitTimeout:   config.AwaitTimeout(),
		Limiter:        limiter,
	})

	srv := &http.Server{
		Addr:              config.ServerAddr(),
		Handler:           router,
		ReadTimeout:       config.ServerReadTimeout(),
		ReadHeaderTimeout: config.ServerReadHeaderTimeout(),
		WriteTimeout:      config.ServerWriteTimeout(),
		IdleTimeout:       config.ServerIdleTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.InfoLog("authform server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLog("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logging.InfoLog("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLog("Graceful shutdown failed: %v", err)
	}
}
