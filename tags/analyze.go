package tags

import (
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/extract"
)

const (
	untaggedSampleSize = 10
	teamDisplayLimit   = 30
)

var (
	yearMention = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	teamMention = regexp.MustCompile(`\bvs\.?\s+([A-Z][A-Za-z.\-]+)`)
)

// Report is the aggregate view of one analysis pass over the collection.
type Report struct {
	TotalPlays int
	Tagged     int
	Tags       map[string]int
	Years      map[string]int
	Teams      map[string]int

	// Untagged lists titles no rule matched, excluding records that never
	// got a real title. These are the candidates for new rules.
	Untagged []string
}

// Analyze tags every record and aggregates the results.
func Analyze(records []*core.Record) *Report {
	report := &Report{
		TotalPlays: len(records),
		Tags:       make(map[string]int),
		Years:      make(map[string]int),
		Teams:      make(map[string]int),
	}

	for _, record := range records {
		if m := yearMention.FindStringSubmatch(record.Title); m != nil {
			report.Years[m[1]]++
		}
		if m := teamMention.FindStringSubmatch(record.Title); m != nil {
			report.Teams[m[1]]++
		}

		found := Tag(record)
		if len(found) > 0 {
			report.Tagged++
			for _, tag := range found {
				report.Tags[tag]++
			}
			continue
		}
		if record.Title != "" && record.Title != extract.FallbackTitle {
			report.Untagged = append(report.Untagged, record.Title)
		}
	}

	return report
}

// Coverage returns the tagged share of the collection as a percentage.
func (r *Report) Coverage() float64 {
	if r.TotalPlays == 0 {
		return 0
	}
	return float64(r.Tagged) / float64(r.TotalPlays) * 100
}

// Sample returns up to n untagged titles.
func (r *Report) Sample(n int) []string {
	if n > len(r.Untagged) {
		n = len(r.Untagged)
	}
	return r.Untagged[:n]
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Analyzed %d plays\n", r.TotalPlays)

	writeSection(w, "YEARS", r.Years, 0)
	writeSection(w, "TOP TEAMS", r.Teams, teamDisplayLimit)
	writeSection(w, "TAGS", r.Tags, 0)

	fmt.Fprintf(w, "\n=== COVERAGE ===\n")
	fmt.Fprintf(w, "  Tagged: %d/%d (%.1f%%)\n", r.Tagged, r.TotalPlays, r.Coverage())

	if sample := r.Sample(untaggedSampleSize); len(sample) > 0 {
		fmt.Fprintf(w, "\n=== UNTAGGED SAMPLE ===\n")
		for _, title := range sample {
			fmt.Fprintf(w, "  - %s\n", title)
		}
	}
}

type countEntry struct {
	key   string
	count int
}

func writeSection(w io.Writer, heading string, counts map[string]int, limit int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n=== %s ===\n", heading)
	for _, entry := range sortedCounts(counts, limit) {
		fmt.Fprintf(w, "  %s: %d\n", entry.key, entry.count)
	}
}

// sortedCounts orders entries by descending count, then by key so equal
// counts render deterministically. A positive limit truncates the list.
func sortedCounts(counts map[string]int, limit int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, countEntry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
