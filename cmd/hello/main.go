// Command hello serves a greeting handler as an API Gateway proxy Lambda.
// HELLO_HANDLER selects hello or hello2.
package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/itemgate/hello"
	"github.com/jacentio/itemgate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	handler, err := hello.Lookup(cfg.HelloHandler)
	if err != nil {
		log.Fatalf("Failed to select handler: %v", err)
	}

	lambda.Start(handler)
}
