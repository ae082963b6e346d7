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


package assets

import "context"

// Fetcher downloads a source URL to a local file.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	// Download retrieves url and writes it to destPath, creating or
	// truncating the file. The destination directory must exist.
	Download(ctx context.Context, url, destPath string) error
}

// Transcoder converts an animated source file into a normalized MP4 clip.
// Implementations must be safe for concurrent use.
type Transcoder interface {
	// Transcode reads srcPath and writes a playable MP4 to destPath.
	Transcode(ctx context.Context, srcPath, destPath string) error
}

// BlobStore uploads local files to durable public storage.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Upload stores the file under key and returns its public URL.
	Upload(ctx context.Context, localPath, key string) (string, error)
}

// Normalizer re-encodes static images within bounded dimensions.
// A Normalizer failure is never fatal: callers keep the original bytes.
type Normalizer interface {
	Normalize(data []byte) ([]byte, error)
}
