package refresh

import "errors"

var (
	// ErrStoreRequired is returned when no collection store is provided.
	ErrStoreRequired = errors.New("collection store required")

	// ErrLedgerRequired is returned when no asset ledger is provided.
	ErrLedgerRequired = errors.New("asset ledger required")

	// ErrAdapterRequired is returned when no source adapter is provided.
	ErrAdapterRequired = errors.New("source adapter required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
