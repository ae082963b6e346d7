package ingest

import "errors"

var (
	// ErrStoreRequired is returned when a collection store is not provided.
	ErrStoreRequired = errors.New("collection store required")

	// ErrAdapterRequired is returned when a source adapter is not provided.
	ErrAdapterRequired = errors.New("source adapter required")

	// ErrTransferrerRequired is returned when an asset transferrer is not provided.
	ErrTransferrerRequired = errors.New("asset transferrer required")
)
