// Package gateway defines the capability through which all database reads and
// writes happen. The migrator only depends on the Gateway interface; the
// Cosmos DB REST implementation lives in internal/cosmos and an in-memory one
// in internal/gatewaytest.
package gateway

import (
	"context"
	"errors"

	"github.com/pthm/bigbang/pkg/model"
)

// Errors implementations wrap so callers can branch on them with errors.Is.
var (
	ErrNotFound = errors.New("gateway: resource not found")
	ErrConflict = errors.New("gateway: resource already exists")
)

// Gateway is the minimal set of operations a reconciliation run needs.
// Every call blocks until the service has answered.
type Gateway interface {
	// Ping probes the account; it fails when the endpoint is unreachable or
	// the credentials are rejected.
	Ping(ctx context.Context) error

	DatabaseExists(ctx context.Context, db string) (bool, error)
	// CreateDatabaseIfNotExists creates db with the optional throughput and
	// reports whether it was created by this call.
	CreateDatabaseIfNotExists(ctx context.Context, db string, throughput *int) (created bool, err error)
	ReplaceDatabaseThroughput(ctx context.Context, db string, throughput int) error

	ListContainers(ctx context.Context, db string) ([]ContainerProperties, error)
	CreateContainer(ctx context.Context, db string, props ContainerProperties, throughput *int) error
	ReplaceContainer(ctx context.Context, db string, props ContainerProperties) error
	DeleteContainer(ctx context.Context, db, container string) error
	ReplaceContainerThroughput(ctx context.Context, db, container string, throughput int) error

	ListScripts(ctx context.Context, db, container string, kind model.ScriptKind) ([]ScriptSummary, error)
	CreateScript(ctx context.Context, db, container string, kind model.ScriptKind, id, body string) error
	ReplaceScript(ctx context.Context, db, container string, kind model.ScriptKind, id, body string) error
	DeleteScript(ctx context.Context, db, container string, kind model.ScriptKind, id string) error
}
