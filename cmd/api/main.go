// Command api serves the HTTP router. Inside AWS Lambda it runs behind an
// API Gateway proxy integration; elsewhere it listens on SERVER_ADDRESS.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"

	"github.com/jacentio/itemgate/gateway"
	"github.com/jacentio/itemgate/httpapi"
	"github.com/jacentio/itemgate/internal/awsclient"
	"github.com/jacentio/itemgate/internal/config"
	"github.com/jacentio/itemgate/internal/logging"
	"github.com/jacentio/itemgate/internal/metrics"
	"github.com/jacentio/itemgate/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	awsCfg, err := awsclient.LoadAWSConfig(ctx, cfg)
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

	var corsOrigins []string
	if cfg.EnableCORS {
		corsOrigins = []string{cfg.CORSAllowedOrigin}
	}
	router := httpapi.NewRouter(gw, logger, metrics.NewCollector("items"), corsOrigins).Setup()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		logger.Info("Starting Lambda proxy", zap.String("table", s.TableName()))
		lambda.Start(chiadapter.New(router).ProxyWithContext)
		return
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("table", s.TableName()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
