package gateway

import (
	"errors"
	"fmt"
)

// Error codes carried in the "error" field of failure responses.
const (
	CodeInvalidMethod = "invalid_method"
	CodeMalformedBody = "malformed_body"
	CodeStoreFailure  = "store_failure"
)

var (
	// ErrMissingBody is returned when an operation needs a body and none was sent.
	ErrMissingBody = errors.New("itemgate: request body is required")

	// ErrUnknownOperation is returned by ParseOperation for unknown names.
	ErrUnknownOperation = errors.New("itemgate: unknown operation")
)

// MethodError reports an operation invoked with the wrong verb.
type MethodError struct {
	Operation Operation
	Expected  string
	Actual    string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("%s only accepts %s method, you tried: %s", e.Operation, e.Expected, e.Actual)
}

// ErrorBody is the JSON payload of every failure response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`

	// Code is the AWS error code for store failures, when one is available.
	Code string `json:"code,omitempty"`

	// Key is the key the failed operation targeted (delete only).
	Key map[string]string `json:"key,omitempty"`
}
