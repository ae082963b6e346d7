package core

import (
	"github.com/go-crypt/x/blake2b"
)

// DateLayout is the normalized calendar-date form stored in CapturedDate.
const DateLayout = "2006-01-02"

// Known attribute keys. Every persisted record carries all of them, with
// empty string values where extraction found nothing.
const (
	AttrDownAndDistance = "down_and_distance"
	AttrPersonnel       = "personnel"
	AttrFormation       = "formation"
)

// AttributeKeys lists the known attribute keys in display order.
var AttributeKeys = []string{AttrDownAndDistance, AttrPersonnel, AttrFormation}

// SourceFamily identifies which kind of source produced a record.
type SourceFamily string

const (
	// SourceMail is the long-form HTML email digest family.
	SourceMail SourceFamily = "mail"
	// SourceSocial is the short social post family.
	SourceSocial SourceFamily = "social"
)

// Provenance records where a play came from. Reference holds the source
// item id for mail records and the permalink for social records; older
// collections may not have one.
type Provenance struct {
	Source    SourceFamily `json:"source"`
	Reference string       `json:"reference,omitempty"`
}

// Record is one play in the collection. The json tags are the on-disk
// contract: the collection document is diffed and read by people, so field
// names and shapes stay stable.
type Record struct {
	Identity       Identity          `json:"identity"`
	Title          string            `json:"title"`
	CapturedDate   string            `json:"capturedDate"`
	MediaSequence  []string          `json:"mediaSequence"`
	AuxiliaryMedia string            `json:"auxiliaryMedia,omitempty"`
	Attributes     map[string]string `json:"attributes"`
	Provenance     Provenance        `json:"provenance"`
}

// NewRecord builds a record with a normalized attribute map.
func NewRecord(identity Identity, title, capturedDate string) *Record {
	return &Record{
		Identity:     identity,
		Title:        title,
		CapturedDate: capturedDate,
		Attributes:   NormalizeAttributes(nil),
	}
}

// NormalizeAttributes returns a map carrying every known attribute key,
// preserving any values already present. Unknown keys pass through.
func NormalizeAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(AttributeKeys))
	for k, v := range attrs {
		out[k] = v
	}
	for _, k := range AttributeKeys {
		if _, ok := out[k]; !ok {
			out[k] = ""
		}
	}
	return out
}

// Complete reports whether the record carries at least one sequence asset.
// Incomplete records are never persisted.
func (r *Record) Complete() bool {
	return len(r.MediaSequence) > 0
}

// CompareRecords orders records by identity for the persisted document.
func CompareRecords(a, b *Record) int {
	return CompareIdentities(a.Identity, b.Identity)
}

// Fingerprint returns a 16-byte BLAKE2b digest of data. Used for raw
// markup fingerprints and transferred asset content hashes.
func Fingerprint(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return h.Sum(nil)
}
