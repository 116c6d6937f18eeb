package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteInput writes contents to name inside an "inputs" directory under the
// config's base directory and returns the full path.
func WriteInput(t testing.TB, baseDir, name, contents string) string {
	t.Helper()

	dir := filepath.Join(baseDir, "inputs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
