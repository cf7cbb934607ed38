// Command scoreboard is the AWS Lambda entrypoint for the win counter.
//
// Environment:
//
//	TABLE_NAME     DynamoDB table, partition key "userId" (default "Scoreboard")
//	STORE_BACKEND  dynamodb (default), redis, sqlite or memory
//	JWT_SECRET     verify HMAC-signed tokens instead of only decoding them
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
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

	if err := cfg.Validate(cfg.Scoreboard); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set; token signatures are not verified")
	}

	// One store per process, reused by every invocation.
	s, err := store.Open(context.Background(), cfg.StoreOptions(cfg.Scoreboard))
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	h := api.NewScoreboard(s, identity.New(cfg.JWTSecret), log)
	lambda.Start(api.Lambda(h))
}
