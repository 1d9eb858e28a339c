package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/jacentio/itemgate/store"
)

// ItemStore is the persistence the gateway delegates to.
// *store.Store satisfies it.
type ItemStore interface {
	List(ctx context.Context) ([]store.Item, error)
	Put(ctx context.Context, item store.Item) error
	Delete(ctx context.Context, id string) error
}

// Operation names a gateway operation.
type Operation string

const (
	OpList   Operation = "list"
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"

	// OpAll routes each request by its method.
	OpAll Operation = "all"
)

// ParseOperation parses an operation name.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(name))); op {
	case OpList, OpUpsert, OpDelete, OpAll:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
}

// Method returns the HTTP verb the operation accepts.
func (op Operation) Method() string {
	switch op {
	case OpList:
		return http.MethodGet
	case OpUpsert:
		return http.MethodPost
	case OpDelete:
		return http.MethodDelete
	default:
		return ""
	}
}

// Gateway maps request envelopes to item store calls.
type Gateway struct {
	store   ItemStore
	logger  *zap.Logger
	headers map[string]string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithHeaders sets headers added to every response, success or failure.
func WithHeaders(headers map[string]string) Option {
	return func(g *Gateway) {
		g.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			g.headers[k] = v
		}
	}
}

// New creates a Gateway over the given store.
func New(s ItemStore, opts ...Option) *Gateway {
	g := &Gateway{
		store:  s,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Handler returns the function serving op. OpAll and unknown operations
// route by method.
func (g *Gateway) Handler(op Operation) func(context.Context, Request) Response {
	switch op {
	case OpList:
		return g.List
	case OpUpsert:
		return g.Upsert
	case OpDelete:
		return g.Delete
	default:
		return g.Dispatch
	}
}

// Dispatch routes the request to List, Upsert or Delete by method.
func (g *Gateway) Dispatch(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodGet:
		return g.List(ctx, req)
	case http.MethodPost:
		return g.Upsert(ctx, req)
	case http.MethodDelete:
		return g.Delete(ctx, req)
	default:
		logger := g.requestLogger(OpAll, req)
		msg := fmt.Sprintf("items only accepts GET, POST or DELETE methods, you tried: %s", req.Method)
		logger.Warn("invalid method", zap.String("message", msg))
		return g.fail(ErrorBody{Error: CodeInvalidMethod, Message: msg})
	}
}

// List returns every item on the first store page.
func (g *Gateway) List(ctx context.Context, req Request) Response {
	logger := g.requestLogger(OpList, req)
	if resp, ok := g.checkMethod(logger, OpList, req); !ok {
		return resp
	}
	logger.Info("received list")

	items, err := g.store.List(ctx)
	if err != nil {
		return g.storeFailure(logger, err, nil)
	}

	resp := g.respond(http.StatusOK, items)
	logger.Info("list completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("count", len(items)),
	)
	return resp
}

// Upsert writes the full record from the body, replacing any existing item
// with the same id, and echoes the normalized record.
func (g *Gateway) Upsert(ctx context.Context, req Request) Response {
	logger := g.requestLogger(OpUpsert, req)
	if resp, ok := g.checkMethod(logger, OpUpsert, req); !ok {
		return resp
	}
	logger.Info("received upsert")

	var in UpsertInput
	if err := decodeBody(req.Body, &in); err != nil {
		return g.malformed(logger, err)
	}
	item := in.Item()
	logger = logger.With(zap.String("id", item.ID))

	if err := g.store.Put(ctx, item); err != nil {
		return g.storeFailure(logger, err, nil)
	}

	resp := g.respond(http.StatusOK, item)
	logger.Info("item added or updated", zap.Int("status", resp.StatusCode))
	return resp
}

// Delete removes the item named in the body and echoes the input.
// Deleting an id that does not exist succeeds.
func (g *Gateway) Delete(ctx context.Context, req Request) Response {
	logger := g.requestLogger(OpDelete, req)
	if resp, ok := g.checkMethod(logger, OpDelete, req); !ok {
		return resp
	}
	logger.Info("received delete")

	var in DeleteInput
	if err := decodeBody(req.Body, &in); err != nil {
		return g.malformed(logger, err)
	}
	logger = logger.With(zap.String("id", in.ID))

	if err := g.store.Delete(ctx, in.ID); err != nil {
		return g.storeFailure(logger, err, map[string]string{store.AttrID: in.ID})
	}

	resp := g.respond(http.StatusOK, in)
	logger.Info("item deleted", zap.Int("status", resp.StatusCode))
	return resp
}

func (g *Gateway) requestLogger(op Operation, req Request) *zap.Logger {
	fields := []zap.Field{
		zap.String("operation", string(op)),
		zap.String("method", req.Method),
	}
	if req.Path != "" {
		fields = append(fields, zap.String("path", req.Path))
	}
	if req.RequestID != "" {
		fields = append(fields, zap.String("request_id", req.RequestID))
	}
	return g.logger.With(fields...)
}

// checkMethod rejects requests whose verb does not match op.
func (g *Gateway) checkMethod(logger *zap.Logger, op Operation, req Request) (Response, bool) {
	if req.Method == op.Method() {
		return Response{}, true
	}
	err := &MethodError{Operation: op, Expected: op.Method(), Actual: req.Method}
	logger.Warn("invalid method", zap.Error(err))
	return g.fail(ErrorBody{Error: CodeInvalidMethod, Message: err.Error()}), false
}

func (g *Gateway) malformed(logger *zap.Logger, err error) Response {
	logger.Warn("malformed body", zap.Error(err))
	return g.fail(ErrorBody{Error: CodeMalformedBody, Message: err.Error()})
}

// storeFailure reports a failed store call without echoing the raw error.
func (g *Gateway) storeFailure(logger *zap.Logger, err error, key map[string]string) Response {
	body := ErrorBody{
		Error:   CodeStoreFailure,
		Message: err.Error(),
		Key:     key,
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		body.Code = ae.ErrorCode()
		if msg := ae.ErrorMessage(); msg != "" {
			body.Message = msg
		}
	}

	logger.Error("store call failed",
		zap.Error(err),
		zap.String("code", body.Code),
	)
	return g.fail(body)
}
