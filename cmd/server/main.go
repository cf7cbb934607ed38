// Command server runs the scoreboard and visitor counter as one long-lived
// HTTP server, for hosts other than Lambda.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/advayc/tally/api"
	"github.com/advayc/tally/internal/config"
	"github.com/advayc/tally/internal/identity"
	"github.com/advayc/tally/internal/logging"
	"github.com/advayc/tally/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config error")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(cfg.Scoreboard, cfg.Visitors); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scores, err := store.Open(ctx, cfg.StoreOptions(cfg.Scoreboard))
	if err != nil {
		log.Fatal().Err(err).Msg("open scoreboard store")
	}
	defer scores.Close()

	visits, err := store.Open(ctx, cfg.StoreOptions(cfg.Visitors))
	if err != nil {
		log.Fatal().Err(err).Msg("open visitor store")
	}
	defer visits.Close()

	h := newHandler(
		api.NewScoreboard(scores, identity.New(cfg.JWTSecret), log),
		api.NewVisitorCounter(visits, log),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend).Msg("tally server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("bye")
}

// newHandler mounts both services plus a health check behind CORS, security
// headers and request logging.
func newHandler(scoreboard, visitors api.Handler, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/scoreboard", api.HTTP(scoreboard))
	mux.Handle("/visitorcounter", api.HTTP(visitors))

	// Simple health endpoint
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Preflights pass through so the services answer them with their own
	// CORS headers.
	c := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		OptionsPassthrough: true,
		MaxAge:             300,
	})

	base := c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		mux.ServeHTTP(w, r)
	}))
	return requestLogger(log, base)
}

// requestLogger logs minimal info about each request
func requestLogger(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", lrw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (l *loggingResponseWriter) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}
