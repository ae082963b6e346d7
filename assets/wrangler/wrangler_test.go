package wrangler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRun struct {
	calls [][]string
	err   error
}

func (f *fakeRun) run(ctx context.Context, binary string, args ...string) error {
	f.calls = append(f.calls, append([]string{binary}, args...))
	return f.err
}

func setupTestStore(t *testing.T, opts ...Option) (*BlobStore, *fakeRun) {
	t.Helper()
	fake := &fakeRun{}
	store, err := New("playvault-media", "https://media.example.com", opts...)
	require.NoError(t, err)
	store.run = fake.run
	return store, fake
}

func TestBlobStore_Upload(t *testing.T) {
	store, fake := setupTestStore(t)

	url, err := store.Upload(context.Background(), "media/737_angle1.mp4", "media/737_angle1.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/media/737_angle1.mp4", url)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{
		"wrangler",
		"r2", "object", "put", "playvault-media/media/737_angle1.mp4",
		"--file", "media/737_angle1.mp4",
		"--remote",
	}, fake.calls[0])
}

func TestBlobStore_UploadFailure(t *testing.T) {
	store, fake := setupTestStore(t)
	fake.err = errors.New("exit status 1")

	_, err := store.Upload(context.Background(), "media/737_angle1.mp4", "media/737_angle1.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media/737_angle1.mp4")
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	store, err := New("bucket", "https://media.example.com/")
	require.NoError(t, err)
	store.run = (&fakeRun{}).run

	url, err := store.Upload(context.Background(), "f.mp4", "media/f.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/media/f.mp4", url)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New("", "https://media.example.com")
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("bucket", "")
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestNew_Options(t *testing.T) {
	store, err := New("bucket", "https://media.example.com", WithBinary("/usr/local/bin/wrangler"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/wrangler", store.binary)

	store, err = New("bucket", "https://media.example.com", WithBinary(""))
	require.NoError(t, err)
	assert.Equal(t, defaultBinary, store.binary)
}
