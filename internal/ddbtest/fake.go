// Package ddbtest provides an in-memory stand-in for the DynamoDB calls used by the store.
package ddbtest

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Fake is an in-memory table keyed on the string attribute "id".
// Set the *Err fields to make the matching call fail.
type Fake struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	ScanErr   error
	PutErr    error
	DeleteErr error

	Calls      int
	LastScan   *dynamodb.ScanInput
	LastPut    *dynamodb.PutItemInput
	LastDelete *dynamodb.DeleteItemInput
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{items: make(map[string]map[string]types.AttributeValue)}
}

// Seed stores raw items as-is, bypassing the store codec.
func (f *Fake) Seed(items ...map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		f.items[idOf(item)] = item
	}
}

// Raw returns the stored attributes for id, or nil.
func (f *Fake) Raw(id string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}

// Len returns the number of stored items.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Scan returns stored items ordered by id, honouring Limit.
func (f *Fake) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastScan = params
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}

	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := &dynamodb.ScanOutput{}
	for _, id := range ids {
		if params.Limit != nil && int32(len(out.Items)) >= aws.ToInt32(params.Limit) {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: idOf(out.Items[len(out.Items)-1])},
			}
			break
		}
		out.Items = append(out.Items, f.items[id])
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count
	return out, nil
}

// PutItem stores the item, replacing any item with the same id.
func (f *Fake) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastPut = params
	if f.PutErr != nil {
		return nil, f.PutErr
	}
	f.items[idOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

// DeleteItem removes the item if present.
func (f *Fake) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastDelete = params
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	delete(f.items, idOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func idOf(item map[string]types.AttributeValue) string {
	if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
