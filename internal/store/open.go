package store

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Backend names accepted by Open.
const (
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Namespace is the DynamoDB table name, or the key prefix / partition
	// used by the other backends.
	Namespace string

	// KeyAttribute is the DynamoDB partition key attribute name.
	KeyAttribute string

	RedisURL   string
	SQLitePath string
}

// Open constructs the backend named by opts.Backend. The returned store is
// meant to be created once per process and shared.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendDynamoDB, "":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return NewDynamoDBStore(dynamodb.NewFromConfig(cfg), opts.Namespace, opts.KeyAttribute), nil
	case BackendRedis:
		return DialRedis(ctx, opts.RedisURL, opts.Namespace)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, opts.Namespace)
	case BackendMemory:
		return NewMemoryStore(opts.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
