package source

import "errors"

// ErrUnavailable indicates the source could not produce an item: the
// backing command failed, timed out, or returned an unparseable response.
// Per-item ingestion treats it as a soft failure and moves on.
var ErrUnavailable = errors.New("source unavailable")
