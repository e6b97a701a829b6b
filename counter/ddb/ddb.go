// Package ddb stores the query count in a DynamoDB item.
//
// Writes are conditional so a slower replica never overwrites a higher
// count saved by another one.
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name wikidex-counters \
//	  --attribute-definitions AttributeName=id,AttributeType=S \
//	  --key-schema AttributeName=id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package ddb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/wikidex/counter"
)

const (
	keyAttr   = "id"
	countAttr = "query_count"
)

// Client is the interface for DynamoDB operations.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Persister implements counter.Persister on a single DynamoDB item.
type Persister struct {
	client Client
	table  string
	id     string
}

var _ counter.Persister = (*Persister)(nil)

// New creates a Persister for the item id in table.
func New(client Client, table, id string) *Persister {
	return &Persister{client: client, table: table, id: id}
}

// NewFromConfig loads the default AWS configuration and creates a Persister.
func NewFromConfig(ctx context.Context, table, id string) (*Persister, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return New(dynamodb.NewFromConfig(cfg), table, id), nil
}

func (p *Persister) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: p.id},
	}
}

// Load reads the item with a consistent read. A missing item counts as zero.
func (p *Persister) Load(ctx context.Context) (uint64, error) {
	resp, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(p.table),
		Key:            p.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read count from DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return 0, nil
	}

	attr, ok := resp.Item[countAttr].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("%w: invalid %s attribute", counter.ErrBadCount, countAttr)
	}
	n, err := strconv.ParseUint(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", counter.ErrBadCount, attr.Value)
	}
	return n, nil
}

// Save writes n unless the stored count is already at least n.
func (p *Persister) Save(ctx context.Context, n uint64) error {
	value := strconv.FormatUint(n, 10)
	item := p.key()
	item[countAttr] = &types.AttributeValueMemberN{Value: value}

	_, err := p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(p.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#c) OR #c < :n"),
		ExpressionAttributeNames: map[string]string{
			"#c": countAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberN{Value: value},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil
		}
		return fmt.Errorf("failed to save count to DynamoDB: %w", err)
	}
	return nil
}
