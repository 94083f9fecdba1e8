package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Backend names accepted by Open.
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Options struct {
	Backend string
	// DSN is the sqlite path or the postgres connection string.
	DSN          string
	ContentTable string
	AuthTable    string
	// LoadAWS is only called for the dynamodb backend.
	LoadAWS func(ctx context.Context) (aws.Config, error)
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendDynamoDB:
		if opts.LoadAWS == nil {
			return nil, fmt.Errorf("dynamodb backend requires AWS configuration")
		}
		cfg, err := opts.LoadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return NewDynamoDBStoreFromConfig(cfg, opts.ContentTable, opts.AuthTable)
	case BackendSQLite:
		return NewSQLiteStore(opts.DSN)
	case BackendPostgres:
		return NewPostgresStore(opts.DSN)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", opts.Backend)
	}
}
