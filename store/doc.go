// Package store provides the DynamoDB data access layer for items.
//
// A [Store] reads and writes a single pre-provisioned table keyed on the
// string attribute "id". It never creates tables and never follows Scan
// pagination: [Store.List] returns at most one page.
//
// # Items
//
// An [Item] carries an id, a display name, a description and three
// [IDList] fields (parentIds, childIds, alternateNames). The lists are
// opaque references; no referential integrity is checked.
//
// Older writers stored those lists as plain strings. [IDList] decodes
// strings, string sets and lists, and always encodes a list:
//
//	""          -> []
//	"a, b"      -> ["a", "b"]
//	["a", "b"]  -> ["a", "b"]
//	3           -> ["3"]
//
// Reads are lenient. Number and boolean values in string fields are
// returned as strings, and attributes outside the schema are kept in
// [Item.Extra]. A record that still cannot be decoded is logged and left
// out of [Store.List] instead of failing the whole page.
//
// # Writes
//
// [Store.Put] replaces the whole record (no merge, no version check) and
// [Store.Delete] is idempotent. Concurrent writers to the same id are
// resolved by DynamoDB, last writer wins.
//
// # Configuration
//
//	s, err := store.New(dynamodb.NewFromConfig(awsCfg), store.Config{
//	    TableName: os.Getenv("TABLE_NAME"),
//	})
//
// # Errors
//
//   - [ErrMissingTable] - no table name configured
//   - [ErrEmptyID] - item or key without an id
package store
