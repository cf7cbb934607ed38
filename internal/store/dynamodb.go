package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBStore.
type DynamoDBAPI interface {
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Compile-time interface check.
var _ Store = (*DynamoDBStore)(nil)

// DynamoDBStore is a Store backed by a DynamoDB table whose partition key is
// a string attribute. Counters are number attributes on the item.
type DynamoDBStore struct {
	client  DynamoDBAPI
	table   string
	keyAttr string
}

// NewDynamoDBStore creates a store on table, addressing items by the
// keyAttr partition key.
func NewDynamoDBStore(client DynamoDBAPI, table, keyAttr string) *DynamoDBStore {
	return &DynamoDBStore{client: client, table: table, keyAttr: keyAttr}
}

// Increment atomically adds one to field with an ADD update expression and
// reads the new value back from the same call.
func (d *DynamoDBStore) Increment(ctx context.Context, key, field string) (int64, error) {
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.table),
		Key:                       d.itemKey(key),
		UpdateExpression:          aws.String("ADD #f :inc"),
		ExpressionAttributeNames:  map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{":inc": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, unavailable("dynamodb", "update item", err)
	}
	v, ok, err := numberAttr(out.Attributes, field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("dynamodb: update of %s returned no value", field)
	}
	return v, nil
}

// Get returns the current value of field under key using a consistent read.
func (d *DynamoDBStore) Get(ctx context.Context, key, field string) (int64, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, unavailable("dynamodb", "get item", err)
	}
	if out.Item == nil {
		return 0, nil
	}
	v, _, err := numberAttr(out.Item, field)
	return v, err
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *DynamoDBStore) Close() error {
	return nil
}

func (d *DynamoDBStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		d.keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

// numberAttr converts a DynamoDB number, which arrives as a decimal string,
// into an int64. Fractional values are rejected.
func numberAttr(item map[string]types.AttributeValue, field string) (int64, bool, error) {
	av, ok := item[field]
	if !ok {
		return 0, false, nil
	}
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, false, fmt.Errorf("dynamodb: attribute %s is %T, not a number", field, av)
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("dynamodb: attribute %s: %w", field, err)
	}
	return v, true, nil
}
