package storage

import (
	"testing"
	"time"

	"github.com/fieldside/playvault/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalTransferState(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		state *TransferState
	}{
		{
			name: "uploaded asset",
			state: &TransferState{
				SourceURL:     "https://cdn.example.com/plays/737_angle1.gif",
				LocalPath:     "media/737_angle1.mp4",
				DurableURL:    "https://media.fieldside.example/media/737_angle1.mp4",
				ContentHash:   core.Fingerprint([]byte("mp4 bytes")),
				TransferredAt: now,
			},
		},
		{
			name: "local fallback without durable url",
			state: &TransferState{
				SourceURL:     "https://cdn.example.com/plays/737_angle2.gif",
				LocalPath:     "media/737_angle2.mp4",
				DurableURL:    "media/737_angle2.mp4",
				ContentHash:   core.Fingerprint([]byte("other bytes")),
				TransferredAt: now,
			},
		},
		{
			name: "empty hash",
			state: &TransferState{
				SourceURL:     "https://cdn.example.com/plays/737_diagram.jpg",
				LocalPath:     "media/737_diagram.jpg",
				DurableURL:    "media/737_diagram.jpg",
				TransferredAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalTransferState(tt.state)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalTransferState(data)
			require.NoError(t, err)

			assert.Equal(t, tt.state.SourceURL, decoded.SourceURL)
			assert.Equal(t, tt.state.LocalPath, decoded.LocalPath)
			assert.Equal(t, tt.state.DurableURL, decoded.DurableURL)
			assert.Equal(t, tt.state.ContentHash, decoded.ContentHash)
			assert.True(t, tt.state.TransferredAt.Equal(decoded.TransferredAt),
				"timestamps should round-trip at microsecond precision")
		})
	}
}

func TestUnmarshalTransferState_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", MarshalTransferState(&TransferState{
			SourceURL:     "https://cdn.example.com/a.gif",
			TransferredAt: time.Now(),
		})[:3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTransferState(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalFingerprintState(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	state := &FingerprintState{
		Sum:        core.Fingerprint([]byte("<html>digest body</html>")),
		RecordedAt: now,
	}

	data := MarshalFingerprintState(state)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalFingerprintState(data)
	require.NoError(t, err)

	assert.Equal(t, state.Sum, decoded.Sum)
	assert.True(t, state.RecordedAt.Equal(decoded.RecordedAt))
}

func TestTransferStateMUS_Skip(t *testing.T) {
	state := TransferState{
		SourceURL:     "https://cdn.example.com/plays/737_angle1.gif",
		LocalPath:     "media/737_angle1.mp4",
		DurableURL:    "https://media.fieldside.example/media/737_angle1.mp4",
		ContentHash:   core.Fingerprint([]byte("mp4 bytes")),
		TransferredAt: time.Now(),
	}

	buf := MarshalTransferState(&state)
	n, err := TransferStateMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n, "Skip should consume the whole value")
}
