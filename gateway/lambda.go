package gateway

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// FromProxyRequest converts an API Gateway proxy event into a Request.
// Base64-encoded bodies are decoded.
func FromProxyRequest(event events.APIGatewayProxyRequest) (Request, error) {
	req := Request{
		Method:    event.HTTPMethod,
		Path:      event.Path,
		Body:      event.Body,
		RequestID: event.RequestContext.RequestID,
	}
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return req, fmt.Errorf("decode base64 body: %w", err)
		}
		req.Body = string(decoded)
	}
	return req, nil
}

// ToProxyResponse converts the Response into an API Gateway proxy response.
func (r Response) ToProxyResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}

// LambdaHandler returns an AWS Lambda handler serving op.
// The returned error is always nil: failures are reported in the response.
func (g *Gateway) LambdaHandler(op Operation) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	handle := g.Handler(op)
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromProxyRequest(event)
		if err != nil {
			logger := g.requestLogger(op, req)
			return g.malformed(logger, err).ToProxyResponse(), nil
		}
		return handle(ctx, req).ToProxyResponse(), nil
	}
}
