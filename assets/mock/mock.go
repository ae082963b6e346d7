// Copyright 2026 Fieldside Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mock provides configurable test doubles for the asset
// transfer interfaces. The doubles are safe for concurrent use so they
// can sit behind the transfer pool.
package mock

import (
	"context"
	"os"
	"sync"

	"github.com/fieldside/playvault/assets"
)

// MockFetcher is a configurable test double for assets.Fetcher. The
// default behavior writes the source URL bytes to the destination path,
// giving each asset distinct content.
type MockFetcher struct {
	DownloadFunc func(ctx context.Context, url, destPath string) error

	mu        sync.Mutex
	downloads []string
}

var _ assets.Fetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Download(ctx context.Context, url, destPath string) error {
	m.mu.Lock()
	m.downloads = append(m.downloads, url)
	m.mu.Unlock()

	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, url, destPath)
	}
	return os.WriteFile(destPath, []byte(url), 0644)
}

// Downloads returns the URLs passed to Download, in call order.
func (m *MockFetcher) Downloads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.downloads...)
}

// CallCount returns the number of Download calls.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.downloads)
}

// Reset clears recorded calls.
func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads = nil
}

// TranscodeCall records one Transcode invocation.
type TranscodeCall struct {
	SrcPath  string
	DestPath string
}

// MockTranscoder is a configurable test double for assets.Transcoder.
// The default behavior copies the source file to the destination.
type MockTranscoder struct {
	TranscodeFunc func(ctx context.Context, srcPath, destPath string) error

	mu    sync.Mutex
	calls []TranscodeCall
}

var _ assets.Transcoder = (*MockTranscoder)(nil)

func (m *MockTranscoder) Transcode(ctx context.Context, srcPath, destPath string) error {
	m.mu.Lock()
	m.calls = append(m.calls, TranscodeCall{SrcPath: srcPath, DestPath: destPath})
	m.mu.Unlock()

	if m.TranscodeFunc != nil {
		return m.TranscodeFunc(ctx, srcPath, destPath)
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0644)
}

// Calls returns the recorded Transcode invocations, in call order.
func (m *MockTranscoder) Calls() []TranscodeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscodeCall(nil), m.calls...)
}

// CallCount returns the number of Transcode calls.
func (m *MockTranscoder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls.
func (m *MockTranscoder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// UploadCall records one Upload invocation.
type UploadCall struct {
	LocalPath string
	Key       string
}

// MockBlobStore is a configurable test double for assets.BlobStore. The
// default behavior returns https://blobs.example.com/<key>.
type MockBlobStore struct {
	UploadFunc func(ctx context.Context, localPath, key string) (string, error)

	mu      sync.Mutex
	uploads []UploadCall
}

var _ assets.BlobStore = (*MockBlobStore)(nil)

func (m *MockBlobStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, UploadCall{LocalPath: localPath, Key: key})
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, localPath, key)
	}
	return "https://blobs.example.com/" + key, nil
}

// Uploads returns the recorded Upload invocations, in call order.
func (m *MockBlobStore) Uploads() []UploadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UploadCall(nil), m.uploads...)
}

// CallCount returns the number of Upload calls.
func (m *MockBlobStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// Reset clears recorded calls.
func (m *MockBlobStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = nil
}

// MockNormalizer is a configurable test double for assets.Normalizer.
// The default behavior returns the input unchanged.
type MockNormalizer struct {
	NormalizeFunc func(data []byte) ([]byte, error)

	mu        sync.Mutex
	callCount int
}

var _ assets.Normalizer = (*MockNormalizer)(nil)

func (m *MockNormalizer) Normalize(data []byte) ([]byte, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(data)
	}
	return data, nil
}

// CallCount returns the number of Normalize calls.
func (m *MockNormalizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count.
func (m *MockNormalizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}
