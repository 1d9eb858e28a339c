package gateway

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Request is the inbound envelope.
type Request struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

// Response is the outbound envelope.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// CORSHeaders returns the permissive CORS header set for the given origin.
func CORSHeaders(origin string) map[string]string {
	if origin == "" {
		origin = "*"
	}
	return map[string]string{
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Methods": "*",
	}
}

// respond serializes v into a response carrying the configured headers.
func (g *Gateway) respond(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		g.logger.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encode_failure","message":"response could not be encoded"}`)
	}
	return Response{
		StatusCode: status,
		Headers:    g.responseHeaders(),
		Body:       string(body),
	}
}

func (g *Gateway) fail(body ErrorBody) Response {
	return g.respond(http.StatusBadRequest, body)
}

func (g *Gateway) responseHeaders() map[string]string {
	if len(g.headers) == 0 {
		return nil
	}
	headers := make(map[string]string, len(g.headers))
	for k, v := range g.headers {
		headers[k] = v
	}
	return headers
}
