// Package download resolves the local filename of a downloaded job output
// and saves it atomically.
package download

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultFilename is used when the response names no file.
const DefaultFilename = "download"

// filenamePattern matches a filename or filename* parameter whose value is a
// double-quoted string, a single-quoted string, or a bare token.
var filenamePattern = regexp.MustCompile(`filename[^;=\n]*=("[^"]*"|'[^']*'|[^;\n]*)`)

// Filename extracts the suggested filename from header's Content-Disposition.
// It returns fallback when the header is absent, is not an attachment, or
// names no file.
func Filename(header http.Header, fallback string) string {
	disposition := header.Get("Content-Disposition")
	if disposition == "" || !strings.Contains(disposition, "attachment") {
		return fallback
	}
	match := filenamePattern.FindStringSubmatch(disposition)
	if match == nil {
		return fallback
	}
	name := strings.TrimSpace(match[1])
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "'", "")
	if name == "" {
		return fallback
	}
	return name
}

// Save writes body to dir under the sanitized base component of name. The
// file appears under its final name only once fully written.
func Save(dir, name string, body []byte) (string, error) {
	base := SanitizeFileName(filepath.Base(filepath.Clean("/" + name)))
	if base == "" || base == "-" || base == "." || base == ".." {
		return "", errors.New("save download: empty filename")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", base, err)
	}

	target := filepath.Join(dir, base)
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", fmt.Errorf("rename %s: %w", base, err)
	}
	return target, nil
}
