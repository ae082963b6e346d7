package assets

import "errors"

var (
	// ErrTransferFailed indicates a media reference could not be turned
	// into a durable asset. The pipeline drops the reference and keeps
	// going; the merge gate decides what an empty sequence means.
	ErrTransferFailed = errors.New("asset transfer failed")

	// ErrLedgerRequired is returned when a pipeline is constructed
	// without an asset ledger.
	ErrLedgerRequired = errors.New("asset ledger is required")

	// ErrFetcherRequired is returned when a pipeline is constructed
	// without a fetcher.
	ErrFetcherRequired = errors.New("fetcher is required")
)
