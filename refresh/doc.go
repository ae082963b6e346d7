// Package refresh re-runs extraction over the persisted collection.
//
// Extraction rules improve over time; refresh lets the collection catch
// up without re-ingesting. Each eligible record's source is fetched and
// fingerprinted, unchanged sources are skipped, and changed ones have
// their title, captured date, and attributes re-extracted in place.
// Saves go through a reload-merge so a concurrent ingest run is never
// overwritten.
package refresh
