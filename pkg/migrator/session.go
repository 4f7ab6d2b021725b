package migrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm/bigbang"
	"github.com/pthm/bigbang/pkg/gateway"
)

// Session is the explicit run context produced by Validate. It carries the
// gateway and the resolved document path into Run, Status and health checks.
type Session struct {
	gw           gateway.Gateway
	documentPath string
}

// Gateway returns the session's gateway.
func (s *Session) Gateway() gateway.Gateway {
	return s.gw
}

// DocumentPath returns the absolute path of the desired-state document.
func (s *Session) DocumentPath() string {
	return s.documentPath
}

// Validate is the gate every run passes before reconciliation: it probes
// account connectivity and checks that the document exists and is a regular
// file. On failure no Session is returned and nothing has been mutated.
//
// Errors wrap bigbang.ErrConnectivity or bigbang.ErrMissingDocument.
func Validate(ctx context.Context, gw gateway.Gateway, documentPath string) (*Session, error) {
	if err := gw.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", bigbang.ErrConnectivity, err)
	}

	abs, err := CheckDocument(documentPath)
	if err != nil {
		return nil, err
	}

	return &Session{gw: gw, documentPath: abs}, nil
}

// CheckDocument confirms the document exists and is a regular file, returning
// its absolute path.
func CheckDocument(documentPath string) (string, error) {
	if documentPath == "" {
		return "", fmt.Errorf("%w: no document path given", bigbang.ErrMissingDocument)
	}
	abs, err := filepath.Abs(documentPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bigbang.ErrMissingDocument, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", bigbang.ErrMissingDocument, documentPath)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", bigbang.ErrMissingDocument, documentPath)
	}
	return abs, nil
}
