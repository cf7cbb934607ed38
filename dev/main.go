package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/advayc/tally/api"
	"github.com/advayc/tally/internal/config"
	"github.com/advayc/tally/internal/identity"
	"github.com/advayc/tally/internal/logging"
	"github.com/advayc/tally/internal/store"
)

// Dev server to exercise the serverless handlers locally. Counters live in
// memory unless STORE_BACKEND says otherwise.
// Usage:
//
//	LOG_PRETTY=1 go run ./dev
//
// Then in another terminal run curl commands:
//
//	curl -X POST -d '{"id":"home"}' "http://localhost:${PORT:-8080}/visitorcounter"
//	curl -X POST -H "Authorization: Bearer $TOKEN" "http://localhost:${PORT:-8080}/scoreboard"
//	curl -H "Authorization: Bearer $TOKEN" "http://localhost:${PORT:-8080}/scoreboard"
func main() {
	if os.Getenv("STORE_BACKEND") == "" {
		os.Setenv("STORE_BACKEND", store.BackendMemory)
	}
	if os.Getenv("VISITOR_TABLE_NAME") == "" {
		os.Setenv("VISITOR_TABLE_NAME", "Visitors")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(cfg.Scoreboard, cfg.Visitors); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	ctx := context.Background()
	scores, err := store.Open(ctx, cfg.StoreOptions(cfg.Scoreboard))
	if err != nil {
		log.Fatal().Err(err).Msg("open scoreboard store")
	}
	visits, err := store.Open(ctx, cfg.StoreOptions(cfg.Visitors))
	if err != nil {
		log.Fatal().Err(err).Msg("open visitor store")
	}

	mux := http.NewServeMux()
	mux.Handle("/scoreboard", api.HTTP(api.NewScoreboard(scores, identity.New(cfg.JWTSecret), log)))
	mux.Handle("/visitorcounter", api.HTTP(api.NewVisitorCounter(visits, log)))

	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("dev tally server listening")
	if err := http.ListenAndServe(":"+cfg.Port, cors.New(cors.Options{OptionsPassthrough: true}).Handler(mux)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
