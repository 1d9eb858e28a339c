package gateway

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes bounds request bodies read by HTTPHandler.
const MaxBodyBytes = 1 << 20

// FromHTTPRequest reads r into a Request. The body is limited to MaxBodyBytes.
func FromHTTPRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	req := Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: middleware.GetReqID(r.Context()),
	}
	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	req.Body = string(body)
	return req, nil
}

// WriteHTTP writes the response to w.
func (r Response) WriteHTTP(w http.ResponseWriter) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.StatusCode)
	_, _ = io.WriteString(w, r.Body)
}

// HTTPHandler returns an http.HandlerFunc serving op.
func (g *Gateway) HTTPHandler(op Operation) http.HandlerFunc {
	handle := g.Handler(op)
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := FromHTTPRequest(w, r)
		if err != nil {
			g.malformed(g.requestLogger(op, req), err).WriteHTTP(w)
			return
		}
		handle(r.Context(), req).WriteHTTP(w)
	}
}
