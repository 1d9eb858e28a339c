// Command items serves one item gateway operation as an API Gateway proxy Lambda.
// ITEMS_HANDLER selects the operation: list, upsert, delete or all.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/jacentio/itemgate/gateway"
	"github.com/jacentio/itemgate/internal/awsclient"
	"github.com/jacentio/itemgate/internal/config"
	"github.com/jacentio/itemgate/internal/logging"
	"github.com/jacentio/itemgate/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	awsCfg, err := awsclient.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	s, err := store.New(awsclient.NewDynamoDB(awsCfg, cfg), cfg.Store(), store.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create item store", zap.Error(err))
	}

	gw := gateway.New(s,
		gateway.WithLogger(logger),
		gateway.WithHeaders(cfg.ResponseHeaders()),
	)

	logger.Info("Starting items handler",
		zap.String("operation", string(cfg.ItemsHandler)),
		zap.String("table", s.TableName()),
	)
	lambda.Start(gw.LambdaHandler(cfg.ItemsHandler))
}
