package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

// DynamoAPI is the subset of the DynamoDB client the slot store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// slotItem is the table layout: partition key "owner", sort key "slot".
type slotItem struct {
	Owner     string    `dynamodbav:"owner"`
	Slot      string    `dynamodbav:"slot"`
	Value     []byte    `dynamodbav:"value"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// DynamoStore keeps slots in a DynamoDB table so several machines can share
// favorites and history.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
	owner     string
}

func NewDynamoStore(client DynamoAPI, tableName, owner string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName, owner: owner}
}

// OpenDynamoStore builds a client from the default AWS credential chain.
func OpenDynamoStore(ctx context.Context, tableName, owner string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	return NewDynamoStore(dynamodb.NewFromConfig(cfg), tableName, owner), nil
}

func (s *DynamoStore) key(slot string) map[string]dynamodbtypes.AttributeValue {
	return map[string]dynamodbtypes.AttributeValue{
		"owner": &dynamodbtypes.AttributeValueMemberS{Value: s.owner},
		"slot":  &dynamodbtypes.AttributeValueMemberS{Value: slot},
	}
}

func (s *DynamoStore) ReadSlot(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading slot %q", key)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item slotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, errors.Wrapf(err, "decoding slot %q", key)
	}
	return item.Value, nil
}

func (s *DynamoStore) WriteSlot(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(slotItem{
		Owner:     s.owner,
		Slot:      key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrapf(err, "encoding slot %q", key)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "writing slot %q", key)
	}
	return nil
}

func (s *DynamoStore) Close() error { return nil }
