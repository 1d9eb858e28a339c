package store

import "errors"

var (
	// ErrMissingTable is returned by New when no table name is configured.
	ErrMissingTable = errors.New("itemgate: table name is required")

	// ErrEmptyID is returned when an item or key has no id.
	ErrEmptyID = errors.New("itemgate: item id is required")
)
