package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"relief/internal/api"
	"relief/internal/testsupport"
)

type stubProber struct {
	info api.ServerInfo
	err  error
}

func (s stubProber) ServerInfo(context.Context) (api.ServerInfo, error) {
	return s.info, s.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckServer_OK(t *testing.T) {
	result := CheckServer(context.Background(), "http://srv/api", stubProber{info: api.ServerInfo{APIVersion: "2", FrontendVersion: "1"}})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "api 2") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}
}

func TestCheckServer_Unresponsive(t *testing.T) {
	result := CheckServer(context.Background(), "http://srv/api", stubProber{err: context.DeadlineExceeded})
	if result.Passed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Detail, "timed out") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_DirectoriesAndServer(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg, stubProber{})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected every check to pass: %+v", results)
	}

	results = RunAll(context.Background(), cfg, stubProber{err: errors.New("connection refused")})
	if !Failed(results) {
		t.Fatal("expected server failure to be reported")
	}
}

func TestRunAll_SharedLogDirChecksOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.LogDir = cfg.Paths.StateDir

	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 2 {
		t.Fatalf("expected state and download checks only, got %+v", results)
	}
}

func TestRunAll_MissingDownloadDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.DownloadDir = filepath.Join(testsupport.BaseDir(cfg), "gone")

	results := RunAll(context.Background(), cfg, nil)
	if !Failed(results) {
		t.Fatalf("expected missing download dir to fail: %+v", results)
	}
}
