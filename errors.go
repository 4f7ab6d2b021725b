package bigbang

import "errors"

// Sentinel errors for the failure modes of a reconciliation run.
// Validation failures (ErrConnectivity, ErrMissingDocument) are raised before
// any mutation. Document errors (ErrInvalidDocument and the more specific
// collision errors) are raised while loading, also before any mutation.
//
// Use the Is*Err helper functions to check for specific errors and map them
// to operator-facing messages or exit codes.
var (
	// ErrConnectivity is returned when the account probe fails, either because
	// the endpoint is unreachable or the key is rejected.
	ErrConnectivity = errors.New("bigbang: account unreachable or credentials rejected")

	// ErrMissingDocument is returned when the desired-state document path does
	// not resolve to a readable file.
	ErrMissingDocument = errors.New("bigbang: desired-state document not found")

	// ErrInvalidDocument is returned when the desired-state document cannot be
	// decoded or fails model validation.
	ErrInvalidDocument = errors.New("bigbang: invalid desired-state document")

	// ErrDuplicateContainer is returned when two desired containers share an id.
	ErrDuplicateContainer = errors.New("bigbang: duplicate container id")

	// ErrScriptIDCollision is returned when two script files of the same kind in
	// one container derive the same script id.
	ErrScriptIDCollision = errors.New("bigbang: script id collision")

	// ErrPartialMigration is returned by a continue-on-error run in which at
	// least one container failed. Operations applied before and after the
	// failure stay applied.
	ErrPartialMigration = errors.New("bigbang: migration finished with errors")
)

// IsConnectivityErr returns true if err is or wraps ErrConnectivity.
func IsConnectivityErr(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsMissingDocumentErr returns true if err is or wraps ErrMissingDocument.
func IsMissingDocumentErr(err error) bool {
	return errors.Is(err, ErrMissingDocument)
}

// IsInvalidDocumentErr returns true if err is or wraps ErrInvalidDocument.
func IsInvalidDocumentErr(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}

// IsDuplicateContainerErr returns true if err is or wraps ErrDuplicateContainer.
func IsDuplicateContainerErr(err error) bool {
	return errors.Is(err, ErrDuplicateContainer)
}

// IsScriptIDCollisionErr returns true if err is or wraps ErrScriptIDCollision.
func IsScriptIDCollisionErr(err error) bool {
	return errors.Is(err, ErrScriptIDCollision)
}

// IsPartialMigrationErr returns true if err is or wraps ErrPartialMigration.
func IsPartialMigrationErr(err error) bool {
	return errors.Is(err, ErrPartialMigration)
}
