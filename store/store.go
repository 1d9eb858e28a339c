package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Store provides DynamoDB operations on the items table.
// It holds no per-call state and is safe for concurrent use.
type Store struct {
	client Client
	config Config
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report records List skips.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new Store instance.
func New(client Client, config Config, opts ...Option) (*Store, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		client: client,
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TableName returns the configured table name.
func (s *Store) TableName() string {
	return s.config.TableName
}

// List returns the items on the first Scan page with all their attributes.
// LastEvaluatedKey is ignored: tables larger than one page are truncated.
// Records that cannot be decoded are logged and left out.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	}
	if s.config.PageLimit > 0 {
		input.Limit = aws.Int32(s.config.PageLimit)
	}
	if s.config.ConsistentRead {
		input.ConsistentRead = aws.Bool(true)
	}

	result, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.config.TableName, err)
	}

	items := make([]Item, 0, len(result.Items))
	for _, raw := range result.Items {
		item, err := decodeItem(raw)
		if err != nil {
			id, _ := scalarString(raw[AttrID])
			s.logger.Warn("skipping undecodable item",
				zap.String("table", s.config.TableName),
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Put writes the full item, replacing any existing record with the same id.
func (s *Store) Put(ctx context.Context, item Item) error {
	if item.ID == "" {
		return ErrEmptyID
	}

	av, err := attributevalue.MarshalMap(Normalize(item))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.config.TableName, err)
	}
	return nil
}

// Delete removes the item with the given id. Deleting a missing id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       KeyFor(id),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.config.TableName, err)
	}
	return nil
}
