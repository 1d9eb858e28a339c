// Package hello provides the trivial greeting handlers deployed next to the item gateway.
package hello

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Handler names accepted by Lookup.
const (
	NameHello  = "hello"
	NameHello2 = "hello2"
)

// HandlerFunc is the Lambda signature shared by the greeting handlers.
type HandlerFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Message is the response body.
type Message struct {
	Message string `json:"message"`
}

var marshal = json.Marshal

// Handler greets with the default message.
func Handler(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return greet("hello world! part 4!"), nil
}

// Handler2 greets with the second handler's message.
func Handler2(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return greet("lambdaHandler2 hello!"), nil
}

// Lookup returns the handler registered under name.
func Lookup(name string) (HandlerFunc, error) {
	switch name {
	case NameHello, "":
		return Handler, nil
	case NameHello2:
		return Handler2, nil
	default:
		return nil, fmt.Errorf("unknown hello handler %q", name)
	}
}

func greet(text string) events.APIGatewayProxyResponse {
	body, err := marshal(Message{Message: text})
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"message":"some error happened"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	}
}
