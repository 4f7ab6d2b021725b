package bigbang_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pthm/bigbang"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		target error
		is     func(error) bool
	}{
		{"IsConnectivityErr", bigbang.ErrConnectivity, bigbang.IsConnectivityErr},
		{"IsMissingDocumentErr", bigbang.ErrMissingDocument, bigbang.IsMissingDocumentErr},
		{"IsInvalidDocumentErr", bigbang.ErrInvalidDocument, bigbang.IsInvalidDocumentErr},
		{"IsDuplicateContainerErr", bigbang.ErrDuplicateContainer, bigbang.IsDuplicateContainerErr},
		{"IsScriptIDCollisionErr", bigbang.ErrScriptIDCollision, bigbang.IsScriptIDCollisionErr},
		{"IsPartialMigrationErr", bigbang.ErrPartialMigration, bigbang.IsPartialMigrationErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", tt.target)
			if !tt.is(err) {
				t.Errorf("%s should return true for wrapped %v", tt.name, tt.target)
			}
			if tt.is(errors.New("other error")) {
				t.Errorf("%s should return false for other errors", tt.name)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	// Sentinels must stay distinct so helpers never match each other
	all := []error{
		bigbang.ErrConnectivity,
		bigbang.ErrMissingDocument,
		bigbang.ErrInvalidDocument,
		bigbang.ErrDuplicateContainer,
		bigbang.ErrScriptIDCollision,
		bigbang.ErrPartialMigration,
	}
	for i, a := range all {
		if a.Error() == "" {
			t.Errorf("error %d has an empty message", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
