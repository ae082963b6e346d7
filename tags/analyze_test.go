package tags

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*core.Record {
	return []*core.Record{
		titledRecord("2009 Jets vs Patriots Counter Trey"),
		titledRecord("2010 Packers vs Bears Tunnel Screen"),
		titledRecord("2009 Saints vs Vikings Counter"),
		titledRecord("A long description with nothing recognizable at all"),
		titledRecord(extract.FallbackTitle),
	}
}

func TestAnalyze(t *testing.T) {
	report := Analyze(sampleRecords())

	assert.Equal(t, 5, report.TotalPlays)
	assert.Equal(t, 3, report.Tagged)
	assert.InDelta(t, 60.0, report.Coverage(), 0.01)

	assert.Equal(t, map[string]int{
		"run:counter":   2,
		"screen:tunnel": 1,
		"screen":        1,
	}, report.Tags)

	assert.Equal(t, map[string]int{"2009": 2, "2010": 1}, report.Years)
	assert.Equal(t, map[string]int{"Patriots": 1, "Bears": 1, "Vikings": 1}, report.Teams)

	require.Len(t, report.Untagged, 1)
	assert.Equal(t, "A long description with nothing recognizable at all", report.Untagged[0])
}

func TestAnalyze_UntitledRecordsAreNotRuleCandidates(t *testing.T) {
	report := Analyze([]*core.Record{
		titledRecord(extract.FallbackTitle),
		titledRecord(""),
	})

	assert.Zero(t, report.Tagged)
	assert.Empty(t, report.Untagged)
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(nil)

	assert.Zero(t, report.TotalPlays)
	assert.Zero(t, report.Coverage())

	var buf bytes.Buffer
	report.Render(&buf)
	assert.Contains(t, buf.String(), "Analyzed 0 plays")
	assert.Contains(t, buf.String(), "Tagged: 0/0 (0.0%)")
	assert.NotContains(t, buf.String(), "=== TAGS ===")
}

func TestReport_Render(t *testing.T) {
	var buf bytes.Buffer
	Analyze(sampleRecords()).Render(&buf)
	output := buf.String()

	assert.Contains(t, output, "Analyzed 5 plays")
	assert.Contains(t, output, "=== YEARS ===")
	assert.Contains(t, output, "  2009: 2")
	assert.Contains(t, output, "=== TAGS ===")
	assert.Contains(t, output, "  run:counter: 2")
	assert.Contains(t, output, "Tagged: 3/5 (60.0%)")
	assert.Contains(t, output, "=== UNTAGGED SAMPLE ===")
	assert.Contains(t, output, "  - A long description with nothing recognizable at all")
}

func TestReport_SampleCapsOutput(t *testing.T) {
	var records []*core.Record
	for i := range 15 {
		records = append(records,
			titledRecord(fmt.Sprintf("Mystery clip %02d with nothing recognizable", i)))
	}

	report := Analyze(records)
	require.Len(t, report.Untagged, 15)
	assert.Len(t, report.Sample(untaggedSampleSize), 10)

	var buf bytes.Buffer
	report.Render(&buf)
	assert.Contains(t, buf.String(), "Mystery clip 00")
	assert.NotContains(t, buf.String(), "Mystery clip 10")
}

func TestSortedCounts(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}

	entries := sortedCounts(counts, 0)
	require.Len(t, entries, 4)
	assert.Equal(t, countEntry{key: "c", count: 5}, entries[0])
	assert.Equal(t, countEntry{key: "a", count: 2}, entries[1], "ties break by key")
	assert.Equal(t, countEntry{key: "b", count: 2}, entries[2])
	assert.Equal(t, countEntry{key: "d", count: 1}, entries[3])

	assert.Len(t, sortedCounts(counts, 2), 2)
}
