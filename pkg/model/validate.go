package model

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/pthm/bigbang"
)

// Validate checks the structural invariants of a desired database. Every
// problem is reported, combined into one error that wraps ErrInvalidDocument
// and, where applicable, ErrDuplicateContainer or ErrScriptIDCollision.
//
// Script id collisions are checked on the declared paths, so Validate can run
// before any script file is read.
func Validate(db *Database) error {
	var errs error

	if strings.TrimSpace(db.ID) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: database id is required", bigbang.ErrInvalidDocument))
	}
	if db.Throughput != nil && *db.Throughput <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: database throughput must be positive, got %d",
			bigbang.ErrInvalidDocument, *db.Throughput))
	}

	seen := make(map[string]bool, len(db.Containers))
	for i := range db.Containers {
		c := &db.Containers[i]
		if strings.TrimSpace(c.ID) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: container %d: id is required", bigbang.ErrInvalidDocument, i))
			continue
		}
		if seen[c.ID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %w: %q", bigbang.ErrInvalidDocument, bigbang.ErrDuplicateContainer, c.ID))
			continue
		}
		seen[c.ID] = true
		errs = multierr.Append(errs, validateContainer(c))
	}

	return errs
}

func validateContainer(c *Container) error {
	var errs error

	if !strings.HasPrefix(c.PartitionKey, "/") {
		errs = multierr.Append(errs, fmt.Errorf("%w: container %q: partition key path must start with '/', got %q",
			bigbang.ErrInvalidDocument, c.ID, c.PartitionKey))
	}
	if c.DefaultTimeToLive != nil && *c.DefaultTimeToLive < NoExpiry {
		errs = multierr.Append(errs, fmt.Errorf("%w: container %q: defaultTimeToLive must be -1 or greater, got %d",
			bigbang.ErrInvalidDocument, c.ID, *c.DefaultTimeToLive))
	}
	if c.Throughput != nil && *c.Throughput <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: container %q: throughput must be positive, got %d",
			bigbang.ErrInvalidDocument, c.ID, *c.Throughput))
	}
	if p := c.IndexingPolicy; p != nil {
		switch p.IndexingMode {
		case "", IndexingModeConsistent, IndexingModeLazy, IndexingModeNone:
		default:
			errs = multierr.Append(errs, fmt.Errorf("%w: container %q: unknown indexing mode %q",
				bigbang.ErrInvalidDocument, c.ID, p.IndexingMode))
		}
	}

	for _, kind := range ScriptKinds {
		errs = multierr.Append(errs, validateScriptPaths(c.ID, kind, c.ScriptPaths(kind)))
	}

	return errs
}

// validateScriptPaths rejects empty references, references deriving an empty
// id, and references that derive the same id within one kind.
func validateScriptPaths(container string, kind ScriptKind, paths []string) error {
	var errs error
	byID := make(map[string]string, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: container %q: empty %s path",
				bigbang.ErrInvalidDocument, container, kind))
			continue
		}
		id := ScriptID(p)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: container %q: %s path %q has no file name",
				bigbang.ErrInvalidDocument, container, kind, p))
			continue
		}
		if prev, ok := byID[id]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %w: container %q: %s id %q derived from both %q and %q",
				bigbang.ErrInvalidDocument, bigbang.ErrScriptIDCollision, container, kind, id, prev, p))
			continue
		}
		byID[id] = p
	}
	return errs
}
