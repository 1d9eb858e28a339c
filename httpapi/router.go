// Package httpapi serves the item gateway and the greeting handlers over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jacentio/itemgate/gateway"
	"github.com/jacentio/itemgate/hello"
	"github.com/jacentio/itemgate/internal/metrics"
)

// Router wires the HTTP routes.
type Router struct {
	gateway     *gateway.Gateway
	logger      *zap.Logger
	metrics     *metrics.Collector
	corsOrigins []string
}

// NewRouter creates a Router. A nil collector disables /metrics and request
// metrics; empty corsOrigins disables CORS preflight handling.
func NewRouter(gw *gateway.Gateway, logger *zap.Logger, collector *metrics.Collector, corsOrigins []string) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		gateway:     gw,
		logger:      logger,
		metrics:     collector,
		corsOrigins: corsOrigins,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(rt.logger))
	if rt.metrics != nil {
		router.Use(recordMetrics(rt.metrics))
	}
	if len(rt.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", chimiddleware.RequestIDHeader},
			ExposedHeaders: []string{chimiddleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	router.Get("/health", healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Get("/hello", greeting(hello.Handler))
	router.Get("/hello2", greeting(hello.Handler2))

	// HandleFunc registers every method, so it must precede the per-method routes.
	router.HandleFunc("/items", rt.gateway.HTTPHandler(gateway.OpAll))
	router.Get("/items", rt.gateway.HTTPHandler(gateway.OpList))
	router.Post("/items", rt.gateway.HTTPHandler(gateway.OpUpsert))
	router.Delete("/items", rt.gateway.HTTPHandler(gateway.OpDelete))

	return router
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// greeting adapts a Lambda greeting handler to HTTP.
func greeting(h hello.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		gateway.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}.WriteHTTP(w)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

func recordMetrics(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			c.ObserveRequest(r.Method, route, ww.Status(), time.Since(start))
		})
	}
}
