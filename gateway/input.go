package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jacentio/itemgate/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The built-in max counts runes; DynamoDB key limits are in bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// UpsertInput is the body accepted by Upsert. Absent optional fields take
// their empty defaults.
type UpsertInput struct {
	ID             string       `json:"id" validate:"required,maxbytes=2048"`
	DisplayName    string       `json:"displayName"`
	Description    string       `json:"description"`
	ParentIDs      store.IDList `json:"parentIds"`
	ChildIDs       store.IDList `json:"childIds"`
	AlternateNames store.IDList `json:"alternateNames"`
}

// Item returns the full replacement record for the input.
func (in UpsertInput) Item() store.Item {
	return store.Normalize(store.Item{
		ID:             in.ID,
		DisplayName:    in.DisplayName,
		Description:    in.Description,
		ParentIDs:      in.ParentIDs,
		ChildIDs:       in.ChildIDs,
		AlternateNames: in.AlternateNames,
	})
}

// DeleteInput is the body accepted by Delete.
type DeleteInput struct {
	ID string `json:"id" validate:"required,maxbytes=2048"`
}

// decodeBody parses a JSON object body into v and validates it.
func decodeBody(body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return ErrMissingBody
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return describeJSONError(err)
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func describeJSONError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return fmt.Errorf("body must be a JSON object, got %s", typeErr.Value)
		}
		return fmt.Errorf("%s must be a %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("body is not valid JSON: %s", syntaxErr.Error())
	}
	return fmt.Errorf("invalid body: %w", err)
}

// formatValidationError turns validator errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
