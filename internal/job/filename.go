package job

import "strings"

// DefaultFilename is used when no output name was given.
const DefaultFilename = "extruded"

// NormalizeFilename gives name the extension implied by kind. A name without
// an extension gets one appended; otherwise only the final extension segment
// is replaced, so "archive.tar.gz" becomes "archive.tar.stl". A leading dot
// does not start an extension.
func NormalizeFilename(name string, kind Kind) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFilename
	}
	ext := kind.Extension()
	if ext == "" {
		return name
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name + ext
}
