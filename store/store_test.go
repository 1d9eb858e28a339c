package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/itemgate/internal/ddbtest"
	"github.com/jacentio/itemgate/store"
)

func newStore(t *testing.T, fake *ddbtest.Fake, cfg store.Config) *store.Store {
	t.Helper()
	if cfg.TableName == "" {
		cfg.TableName = "items"
	}
	s, err := store.New(fake, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_MissingTable(t *testing.T) {
	_, err := store.New(ddbtest.New(), store.Config{})
	if !errors.Is(err, store.ErrMissingTable) {
		t.Errorf("expected ErrMissingTable, got %v", err)
	}
}

func TestNew_TableName(t *testing.T) {
	s := newStore(t, ddbtest.New(), store.Config{TableName: "sam-app-items"})
	if s.TableName() != "sam-app-items" {
		t.Errorf("expected TableName 'sam-app-items', got %q", s.TableName())
	}
}

func TestList_Empty(t *testing.T) {
	s := newStore(t, ddbtest.New(), store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil {
		t.Error("expected non-nil slice for empty table")
	}
	if len(items) != 0 {
		t.Errorf("expected 0 items, got %d", len(items))
	}
}

func TestList_ScanInput(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{TableName: "items", PageLimit: 25, ConsistentRead: true})

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}

	in := fake.LastScan
	if in == nil {
		t.Fatal("expected Scan to be called")
	}
	if aws.ToString(in.TableName) != "items" {
		t.Errorf("expected table 'items', got %q", aws.ToString(in.TableName))
	}
	if aws.ToInt32(in.Limit) != 25 {
		t.Errorf("expected Limit 25, got %d", aws.ToInt32(in.Limit))
	}
	if !aws.ToBool(in.ConsistentRead) {
		t.Error("expected ConsistentRead")
	}
	if in.ProjectionExpression != nil {
		t.Errorf("expected full records, got projection %q", aws.ToString(in.ProjectionExpression))
	}
}

func TestList_NoLimitByDefault(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{PageLimit: -5})

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fake.LastScan.Limit != nil {
		t.Errorf("expected no Limit, got %d", aws.ToInt32(fake.LastScan.Limit))
	}
	if fake.LastScan.ConsistentRead != nil {
		t.Error("expected ConsistentRead unset")
	}
}

func TestList_SinglePageOnly(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{PageLimit: 2})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, store.Item{ID: id}); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}
	calls := fake.Calls

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items on first page, got %d", len(items))
	}
	if fake.Calls-calls != 1 {
		t.Errorf("expected exactly one Scan call, got %d", fake.Calls-calls)
	}
}

func TestList_LegacyStringLists(t *testing.T) {
	fake := ddbtest.New()
	fake.Seed(map[string]types.AttributeValue{
		"id":             &types.AttributeValueMemberS{Value: "a1"},
		"displayName":    &types.AttributeValueMemberS{Value: "Alpha"},
		"description":    &types.AttributeValueMemberS{Value: ""},
		"parentIds":      &types.AttributeValueMemberS{Value: ""},
		"childIds":       &types.AttributeValueMemberS{Value: "b1, b2"},
		"alternateNames": &types.AttributeValueMemberSS{Value: []string{"A"}},
	})
	s := newStore(t, fake, store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	want := store.Item{
		ID:             "a1",
		DisplayName:    "Alpha",
		ParentIDs:      store.IDList{},
		ChildIDs:       store.IDList{"b1", "b2"},
		AlternateNames: store.IDList{"A"},
	}
	if !reflect.DeepEqual(items[0], want) {
		t.Errorf("expected %+v, got %+v", want, items[0])
	}
}

func TestList_MissingAttributesDefaulted(t *testing.T) {
	fake := ddbtest.New()
	fake.Seed(map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "bare"},
	})
	s := newStore(t, fake, store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].ParentIDs == nil || items[0].ChildIDs == nil || items[0].AlternateNames == nil {
		t.Errorf("expected empty lists, got %+v", items[0])
	}
}

func TestList_ScalarTypesAsStrings(t *testing.T) {
	fake := ddbtest.New()
	fake.Seed(
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "good"},
		},
		map[string]types.AttributeValue{
			"id":             &types.AttributeValueMemberS{Value: "legacy"},
			"displayName":    &types.AttributeValueMemberN{Value: "7"},
			"description":    &types.AttributeValueMemberBOOL{Value: false},
			"parentIds":      &types.AttributeValueMemberN{Value: "3"},
			"childIds":       &types.AttributeValueMemberBOOL{Value: true},
			"alternateNames": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: "x"},
				&types.AttributeValueMemberN{Value: "1"},
			}},
		},
	)
	s := newStore(t, fake, store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "good" {
		t.Errorf("expected first item 'good', got %q", items[0].ID)
	}

	want := store.Item{
		ID:             "legacy",
		DisplayName:    "7",
		Description:    "false",
		ParentIDs:      store.IDList{"3"},
		ChildIDs:       store.IDList{"true"},
		AlternateNames: store.IDList{"x", "1"},
	}
	if !reflect.DeepEqual(items[1], want) {
		t.Errorf("expected %+v, got %+v", want, items[1])
	}
}

func TestList_SkipsUndecodableRecords(t *testing.T) {
	fake := ddbtest.New()
	fake.Seed(
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "a-good"},
		},
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "b-bad"},
			"displayName": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"en": &types.AttributeValueMemberS{Value: "Beta"},
			}},
		},
		map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "c-bad"},
			"parentIds": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberM{},
			}},
		},
	)
	s := newStore(t, fake, store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a-good" {
		t.Errorf("expected only 'a-good', got %+v", items)
	}
}

func TestList_KeepsUnknownAttributes(t *testing.T) {
	fake := ddbtest.New()
	fake.Seed(map[string]types.AttributeValue{
		"id":       &types.AttributeValueMemberS{Value: "a1"},
		"priority": &types.AttributeValueMemberN{Value: "2"},
		"tags":     &types.AttributeValueMemberSS{Value: []string{"red"}},
	})
	s := newStore(t, fake, store.Config{})

	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	data, err := json.Marshal(items[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	expected := `{"id":"a1","displayName":"","description":"","parentIds":[],"childIds":[],"alternateNames":[],"priority":2,"tags":["red"]}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestPut_DropsExtraAttributes(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})

	if err := s.Put(context.Background(), store.Item{ID: "a1", Extra: map[string]any{"priority": 2}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.Raw("a1")["priority"]; ok {
		t.Error("expected extra attribute not to be written")
	}
}

func TestList_ScanError(t *testing.T) {
	fake := ddbtest.New()
	fake.ScanErr = errors.New("throttled")
	s := newStore(t, fake, store.Config{})

	_, err := s.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fake.ScanErr) {
		t.Errorf("expected wrapped scan error, got %v", err)
	}
}

func TestPut_WritesFullRecord(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})

	err := s.Put(context.Background(), store.Item{
		ID:          "a1",
		DisplayName: "Alpha",
		ParentIDs:   store.IDList{"p1"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	in := fake.LastPut
	if in.ConditionExpression != nil {
		t.Error("expected unconditional put")
	}
	raw := fake.Raw("a1")
	if len(raw) != 6 {
		t.Errorf("expected 6 attributes, got %d", len(raw))
	}
	if v, ok := raw["childIds"].(*types.AttributeValueMemberL); !ok || len(v.Value) != 0 {
		t.Errorf("expected empty list for childIds, got %#v", raw["childIds"])
	}
	if v, ok := raw["description"].(*types.AttributeValueMemberS); !ok || v.Value != "" {
		t.Errorf("expected empty description, got %#v", raw["description"])
	}
}

func TestPut_Overwrites(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})
	ctx := context.Background()

	if err := s.Put(ctx, store.Item{ID: "a1", DisplayName: "first", Description: "kept?"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, store.Item{ID: "a1", DisplayName: "second"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].DisplayName != "second" {
		t.Errorf("expected DisplayName 'second', got %q", items[0].DisplayName)
	}
	if items[0].Description != "" {
		t.Errorf("expected full replacement, description still %q", items[0].Description)
	}
}

func TestPut_Idempotent(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})
	ctx := context.Background()
	item := store.Item{ID: "a1", ChildIDs: store.IDList{"c1"}}

	if err := s.Put(ctx, item); err != nil {
		t.Fatalf("Put: %v", err)
	}
	once := fake.Raw("a1")
	if err := s.Put(ctx, item); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !reflect.DeepEqual(once, fake.Raw("a1")) {
		t.Error("expected identical stored state after second put")
	}
	if fake.Len() != 1 {
		t.Errorf("expected 1 item, got %d", fake.Len())
	}
}

func TestPut_EmptyID(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})

	if err := s.Put(context.Background(), store.Item{}); !errors.Is(err, store.ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
	if fake.Calls != 0 {
		t.Errorf("expected no store calls, got %d", fake.Calls)
	}
}

func TestPut_Error(t *testing.T) {
	fake := ddbtest.New()
	fake.PutErr = errors.New("unavailable")
	s := newStore(t, fake, store.Config{})

	if err := s.Put(context.Background(), store.Item{ID: "a1"}); !errors.Is(err, fake.PutErr) {
		t.Errorf("expected wrapped put error, got %v", err)
	}
}

func TestDelete_RemovesItem(t *testing.T) {
	fake := ddbtest.New()
	s := newStore(t, fake, store.Config{})
	ctx := context.Background()

	if err := s.Put(ctx, store.Item{ID: "a1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, item := range items {
		if item.ID == "a1" {
			t.Error("expected a1 to be gone")
		}
	}

	key, ok := fake.LastDelete.Key["id"].(*types.AttributeValueMemberS)
	if !ok || key.Value != "a1" {
		t.Errorf("expected delete key id=a1, got %#v", fake.LastDelete.Key)
	}
}

func TestDelete_MissingIsNotAnError(t *testing.T) {
	s := newStore(t, ddbtest.New(), store.Config{})

	if err := s.Delete(context.Background(), "does-not-exist"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	s := newStore(t, ddbtest.New(), store.Config{})

	if err := s.Delete(context.Background(), ""); !errors.Is(err, store.ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
}

func TestDelete_Error(t *testing.T) {
	fake := ddbtest.New()
	fake.DeleteErr = errors.New("unavailable")
	s := newStore(t, fake, store.Config{})

	if err := s.Delete(context.Background(), "a1"); !errors.Is(err, fake.DeleteErr) {
		t.Errorf("expected wrapped delete error, got %v", err)
	}
}
