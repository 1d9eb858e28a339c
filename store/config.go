package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the name of the DynamoDB table holding items.
	// The table must be keyed on a string attribute "id". Required.
	TableName string

	// PageLimit caps the number of items evaluated by a single List call.
	// Default: 0 (bounded only by DynamoDB's 1 MB page size)
	PageLimit int32

	// ConsistentRead requests a strongly consistent Scan.
	// Default: false (eventually consistent, half the read capacity)
	ConsistentRead bool
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() error {
	if c.TableName == "" {
		return ErrMissingTable
	}
	if c.PageLimit < 0 {
		c.PageLimit = 0
	}
	return nil
}
