package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of an item in the table.
const (
	AttrID             = "id"
	AttrDisplayName    = "displayName"
	AttrDescription    = "description"
	AttrParentIDs      = "parentIds"
	AttrChildIDs       = "childIds"
	AttrAlternateNames = "alternateNames"
)

// Item is the record stored in the items table.
type Item struct {
	// ID is the partition key. It never changes once the item exists.
	ID string `json:"id" dynamodbav:"id"`

	DisplayName string `json:"displayName" dynamodbav:"displayName"`
	Description string `json:"description" dynamodbav:"description"`

	// ParentIDs and ChildIDs are opaque references to other items.
	ParentIDs IDList `json:"parentIds" dynamodbav:"parentIds"`
	ChildIDs  IDList `json:"childIds" dynamodbav:"childIds"`

	AlternateNames IDList `json:"alternateNames" dynamodbav:"alternateNames"`

	// Extra holds attributes outside the item schema found on read. It is
	// emitted in JSON next to the known fields and never written back.
	Extra map[string]any `json:"-" dynamodbav:"-"`
}

// MarshalJSON encodes the known fields followed by any Extra attributes.
func (i Item) MarshalJSON() ([]byte, error) {
	type record Item
	data, err := json.Marshal(record(Normalize(i)))
	if err != nil || len(i.Extra) == 0 {
		return data, err
	}
	extra, err := json.Marshal(i.Extra)
	if err != nil {
		return nil, fmt.Errorf("encode extra attributes: %w", err)
	}
	out := append(data[:len(data)-1:len(data)-1], ',')
	return append(out, extra[1:]...), nil
}

// decodeItem converts a stored record into an Item. Scalar values of any
// type are accepted for the string fields; unknown attributes go to Extra.
func decodeItem(raw map[string]types.AttributeValue) (Item, error) {
	known := make(map[string]types.AttributeValue, len(raw))
	var extra map[string]any
	for name, av := range raw {
		switch name {
		case AttrID, AttrDisplayName, AttrDescription:
			if s, ok := scalarString(av); ok {
				av = &types.AttributeValueMemberS{Value: s}
			}
			known[name] = av
		case AttrParentIDs, AttrChildIDs, AttrAlternateNames:
			known[name] = av
		default:
			var v any
			if err := attributevalue.Unmarshal(av, &v); err != nil {
				return Item{}, fmt.Errorf("attribute %s: %w", name, err)
			}
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[name] = v
		}
	}

	var item Item
	if err := attributevalue.UnmarshalMap(known, &item); err != nil {
		return Item{}, err
	}
	item.Extra = extra
	return Normalize(item), nil
}

// scalarString returns the string form of an S, N, BOOL or NULL attribute.
func scalarString(av types.AttributeValue) (string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberN:
		return v.Value, true
	case *types.AttributeValueMemberBOOL:
		return strconv.FormatBool(v.Value), true
	case *types.AttributeValueMemberNULL:
		return "", true
	default:
		return "", false
	}
}

// Key returns the primary key for the item.
func (i Item) Key() map[string]types.AttributeValue {
	return KeyFor(i.ID)
}

// KeyFor returns the primary key for an item id.
func KeyFor(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// Normalize returns a copy of the item with every optional field set to its
// empty default.
func Normalize(item Item) Item {
	item.ParentIDs = item.ParentIDs.normalize()
	item.ChildIDs = item.ChildIDs.normalize()
	item.AlternateNames = item.AlternateNames.normalize()
	return item
}

// IDList is a list of strings that also accepts the comma-separated string
// form written by older clients. It always encodes as a list.
type IDList []string

func (l IDList) normalize() IDList {
	if l == nil {
		return IDList{}
	}
	return l
}

// MarshalJSON encodes the list as a JSON array, never null.
func (l IDList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l.normalize()))
}

// UnmarshalJSON accepts a JSON array of strings, a comma-separated string or null.
func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*l = IDList{}
	case string:
		*l = splitIDs(v)
	case []any:
		out := make(IDList, 0, len(v))
		for idx, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return fmt.Errorf("element %d: expected string, got %T", idx, elem)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("expected list of strings, got %T", raw)
	}
	return nil
}

// MarshalDynamoDBAttributeValue encodes the list as an L of S.
func (l IDList) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	values := make([]types.AttributeValue, 0, len(l))
	for _, s := range l {
		values = append(values, &types.AttributeValueMemberS{Value: s})
	}
	return &types.AttributeValueMemberL{Value: values}, nil
}

// UnmarshalDynamoDBAttributeValue decodes a list, a string or number set, a
// comma-separated string, NULL, or a single number or boolean. List
// elements may be any scalar.
func (l *IDList) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberNULL:
		*l = IDList{}
	case *types.AttributeValueMemberS:
		*l = splitIDs(v.Value)
	case *types.AttributeValueMemberN:
		*l = IDList{v.Value}
	case *types.AttributeValueMemberBOOL:
		*l = IDList{strconv.FormatBool(v.Value)}
	case *types.AttributeValueMemberSS:
		*l = append(IDList{}, v.Value...)
	case *types.AttributeValueMemberNS:
		*l = append(IDList{}, v.Value...)
	case *types.AttributeValueMemberL:
		out := make(IDList, 0, len(v.Value))
		for idx, elem := range v.Value {
			s, ok := scalarString(elem)
			if !ok {
				return fmt.Errorf("element %d: expected scalar attribute, got %T", idx, elem)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("unsupported attribute type %T for id list", av)
	}
	return nil
}

// splitIDs parses the legacy comma-separated form. Blank entries are dropped.
func splitIDs(s string) IDList {
	out := IDList{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
