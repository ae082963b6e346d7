package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Download(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("clip bytes"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	dest := filepath.Join(t.TempDir(), "737_angle1.mp4")

	require.NoError(t, fetcher.Download(context.Background(), server.URL+"/sideline.mp4", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("clip bytes"), data)
	assert.Equal(t, defaultUserAgent, gotAgent)
}

func TestHTTPFetcher_Download_CustomUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(WithUserAgent("scout/1.0"))
	dest := filepath.Join(t.TempDir(), "out.bin")

	require.NoError(t, fetcher.Download(context.Background(), server.URL, dest))
	assert.Equal(t, "scout/1.0", gotAgent)
}

func TestHTTPFetcher_Download_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := NewHTTPFetcher()
	dest := filepath.Join(t.TempDir(), "missing.mp4")

	err := fetcher.Download(context.Background(), server.URL+"/missing.mp4", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.NoFileExists(t, dest)
}

func TestHTTPFetcher_Download_TruncatedBodyRemovesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("short"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	dest := filepath.Join(t.TempDir(), "truncated.mp4")

	err := fetcher.Download(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestHTTPFetcher_Options(t *testing.T) {
	fetcher := NewHTTPFetcher(WithFetchTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, fetcher.client.Timeout)

	fetcher = NewHTTPFetcher(WithFetchTimeout(0))
	assert.Equal(t, defaultFetchTimeout, fetcher.client.Timeout)
}
