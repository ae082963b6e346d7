// Package ingest provides the orchestration loop that turns source items
// into persisted play records.
//
// The Pipeline drives each item through extraction, media resolution,
// asset transfer, and the merge decision. The loop is single-writer:
// accepted records are appended one at a time with a reload and a fresh
// decision immediately before every save, so re-running a window over an
// already-ingested source yields zero new records and an unchanged
// document.
//
// Observers receive lifecycle callbacks for progress reporting; the
// package ships a logging observer and a counting summary observer.
package ingest
