package merge

import (
	"testing"

	"github.com/fieldside/playvault/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCandidate(id core.Identity) *core.Record {
	record := core.NewRecord(id, "Play of the Day 2026: Counter Trey", "2026-08-21")
	record.MediaSequence = []string{"https://cdn.example.com/737_angle1.mp4"}
	return record
}

func TestDecide(t *testing.T) {
	existing := []*core.Record{
		completeCandidate(core.NumericIdentity(737)),
		completeCandidate(core.ExternalIdentity("", "12345")),
	}
	index := NewIndex(existing)
	engine := NewEngine()

	tests := []struct {
		name      string
		candidate *core.Record
		want      Decision
	}{
		{
			name:      "novel complete candidate",
			candidate: completeCandidate(core.NumericIdentity(900)),
			want:      Accept,
		},
		{
			name:      "exact duplicate",
			candidate: completeCandidate(core.NumericIdentity(737)),
			want:      SkipDuplicate,
		},
		{
			name:      "prefixed duplicate of legacy unprefixed identity",
			candidate: completeCandidate(core.ExternalIdentity("x", "12345")),
			want:      SkipDuplicate,
		},
		{
			name: "incomplete novel candidate",
			candidate: func() *core.Record {
				r := completeCandidate(core.NumericIdentity(901))
				r.MediaSequence = nil
				return r
			}(),
			want: RejectIncomplete,
		},
		{
			name: "incomplete duplicate still rejects on completeness",
			candidate: func() *core.Record {
				r := completeCandidate(core.NumericIdentity(737))
				r.MediaSequence = nil
				return r
			}(),
			want: RejectIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Decide(tt.candidate, index))
		})
	}
}

func TestIndex_AddAfterAccept(t *testing.T) {
	index := NewIndex(nil)
	engine := NewEngine()

	first := completeCandidate(core.ExternalIdentity("x", "555"))
	require.Equal(t, Accept, engine.Decide(first, index))
	index.Add(first.Identity)

	again := completeCandidate(core.ExternalIdentity("x", "555"))
	assert.Equal(t, SkipDuplicate, engine.Decide(again, index))

	legacy := completeCandidate(core.NumericIdentity(555))
	assert.Equal(t, SkipDuplicate, engine.Decide(legacy, index),
		"bare raw form must collide with the prefixed identity")
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "accept", Accept.String())
	assert.Equal(t, "skip-duplicate", SkipDuplicate.String())
	assert.Equal(t, "reject-incomplete", RejectIncomplete.String())
	assert.Equal(t, "unknown", Decision(0).String())
}
