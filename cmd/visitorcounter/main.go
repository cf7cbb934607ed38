// Command visitorcounter is the AWS Lambda entrypoint for the visit counter.
//
// Environment:
//
//	TABLE_NAME     DynamoDB table, partition key "id" (required)
//	STORE_BACKEND  dynamodb (default), redis, sqlite or memory
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	zlog "github.com/rs/zerolog/log"

	"github.com/advayc/tally/api"
	"github.com/advayc/tally/internal/config"
	"github.com/advayc/tally/internal/logging"
	"github.com/advayc/tally/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config error")
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(cfg.Visitors); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	s, err := store.Open(context.Background(), cfg.StoreOptions(cfg.Visitors))
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	lambda.Start(api.Lambda(api.NewVisitorCounter(s, log)))
}
