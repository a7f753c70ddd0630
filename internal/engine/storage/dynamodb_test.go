package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	items  map[string]map[string]dynamodbtypes.AttributeValue
	putErr error
	table  string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]dynamodbtypes.AttributeValue)}
}

func itemKey(m map[string]dynamodbtypes.AttributeValue) string {
	owner := m["owner"].(*dynamodbtypes.AttributeValueMemberS).Value
	slot := m["slot"].(*dynamodbtypes.AttributeValueMemberS).Value
	return owner + "/" + slot
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.table = aws.ToString(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.table = aws.ToString(in.TableName)
	f.items[itemKey(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoStoreRoundTrip(t *testing.T) {
	fake := newFakeDynamo()
	s := NewDynamoStore(fake, "geofind-slots", "local")
	ctx := context.Background()

	v, err := s.ReadSlot(ctx, SlotFavorites)
	if err != nil || v != nil {
		t.Fatalf("expected missing slot, got %q, %v", v, err)
	}

	if err := s.WriteSlot(ctx, SlotFavorites, []byte(`[{"placeId":"abc"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if fake.table != "geofind-slots" {
		t.Fatalf("expected table geofind-slots, got %q", fake.table)
	}

	v, err = s.ReadSlot(ctx, SlotFavorites)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(v) != `[{"placeId":"abc"}]` {
		t.Fatalf("unexpected value %q", v)
	}

	other := NewDynamoStore(fake, "geofind-slots", "someone-else")
	if v, _ := other.ReadSlot(ctx, SlotFavorites); v != nil {
		t.Fatalf("expected owner isolation, got %q", v)
	}
}

func TestDynamoStoreWriteError(t *testing.T) {
	fake := newFakeDynamo()
	fake.putErr = errors.New("throttled")
	s := NewDynamoStore(fake, "t", "o")

	err := s.WriteSlot(context.Background(), SlotFavorites, []byte(`[]`))
	if err == nil || !errors.Is(err, fake.putErr) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}
