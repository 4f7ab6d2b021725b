package migrator

import (
	"context"
	"fmt"

	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/parser"
)

// Migrate validates the gateway and document, then reconciles the account
// against the document in one operation. This is the recommended high-level
// API for most applications.
//
// The run is idempotent: applying the same document twice leaves nothing to
// create or delete on the second run. It is not transactional; a failure
// leaves earlier actions in place.
//
// Example usage from a deploy step:
//
//	report, err := migrator.Migrate(ctx, gw, "topology/database.json", migrator.Options{})
//	if err != nil {
//	    log.Fatalf("migration failed: %v", err)
//	}
//	report.Print(os.Stdout)
//
// To preview without mutating, set Options.DryRun:
//
//	var buf bytes.Buffer
//	_, err := migrator.Migrate(ctx, gw, path, migrator.Options{DryRun: &buf})
func Migrate(ctx context.Context, gw gateway.Gateway, documentPath string, opts Options) (*Report, error) {
	sess, err := Validate(ctx, gw, documentPath)
	if err != nil {
		return nil, err
	}
	return Run(ctx, sess, opts)
}

// Run loads the session's document and reconciles it. Document errors are
// returned before any gateway mutation.
func Run(ctx context.Context, sess *Session, opts Options) (*Report, error) {
	db, err := parser.LoadFile(sess.DocumentPath())
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return NewMigrator(sess.Gateway(), db, opts).Migrate(ctx)
}

// Status is the read-only drift view of a document against live state.
type Status struct {
	Database       string
	DatabaseExists bool
	Split          Split
}

// InSync reports whether the database exists and no containers need to be
// created or deleted.
func (s *Status) InSync() bool {
	return s.DatabaseExists && s.Split.InSync()
}

// StatusOf loads the session's document and computes its drift without
// mutating anything.
func StatusOf(ctx context.Context, sess *Session) (*Status, error) {
	db, err := parser.LoadFile(sess.DocumentPath())
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return NewMigrator(sess.Gateway(), db, Options{}).Status(ctx)
}
