package storage

import (
	"context"

	"github.com/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Options selects and configures a slot store backend.
type Options struct {
	Backend     string
	DBPath      string
	DynamoTable string
	Owner       string
}

// Open returns the slot store for opts.Backend.
func Open(ctx context.Context, opts Options) (SlotStore, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return NewSQLiteStore(opts.DBPath, opts.Owner)
	case BackendDynamoDB:
		return OpenDynamoStore(ctx, opts.DynamoTable, opts.Owner)
	default:
		return nil, errors.Errorf("unknown store backend %q", opts.Backend)
	}
}
