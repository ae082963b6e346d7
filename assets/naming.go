package assets

import (
	"fmt"
	"path"
	"strings"

	"github.com/fieldside/playvault/core"
)

// angleFileName names the Nth sequence asset for an identity. N counts
// from 1 and follows source-list position, so a dropped reference leaves
// a gap rather than renumbering its neighbors.
func angleFileName(identity core.Identity, n int, ext string) string {
	return fmt.Sprintf("%s_angle%d%s", identity.String(), n, ext)
}

// diagramFileName names the auxiliary asset for an identity.
func diagramFileName(identity core.Identity, ext string) string {
	return fmt.Sprintf("%s_diagram%s", identity.String(), ext)
}

// extOf extracts the lowercased file extension from a URL, ignoring any
// query string or fragment. Returns ".jpg" when the path has none.
func extOf(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := strings.ToLower(path.Ext(trimmed))
	if ext == "" {
		return ".jpg"
	}
	return ext
}

// needsTranscode reports whether a sequence asset with this extension
// must run through the transcoder before serving.
func needsTranscode(ext string) bool {
	return ext == ".gif" || ext == ".webm"
}

// isAnimated mirrors the resolver's classification for pipeline-side
// decisions about structured refs that bypassed markup scanning.
func isAnimated(ext string) bool {
	switch ext {
	case ".gif", ".mp4", ".m4v", ".webm":
		return true
	}
	return false
}
