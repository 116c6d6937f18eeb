package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"relief/internal/config"
	"relief/internal/job"
	"relief/internal/testsupport"
)

// fakeServer is an in-memory stand-in for the conversion service.
type fakeServer struct {
	mu        sync.Mutex
	submitted []job.Descriptor
	pending   []string
	finished  map[string]map[string]any
	workers   map[string]string
	outputs   map[string]string
	failing   map[string]int
	gates     map[job.Kind]*submitGate
}

// submitGate holds submissions of one kind until released.
type submitGate struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		finished: map[string]map[string]any{},
		workers:  map[string]string{"0": "idle"},
		outputs:  map[string]string{},
		failing:  map[string]int{},
		gates:    map[job.Kind]*submitGate{},
	}
}

// hold makes submissions of kind block until release is called. entered
// receives once per held request.
func (f *fakeServer) hold(kind job.Kind) (<-chan struct{}, func()) {
	gate := &submitGate{entered: make(chan struct{}, 4), release: make(chan struct{})}
	f.mu.Lock()
	f.gates[kind] = gate
	f.mu.Unlock()
	var once sync.Once
	return gate.entered, func() { once.Do(func() { close(gate.release) }) }
}

// submit waits on the kind's gate without holding mu so other requests keep
// being served.
func (f *fakeServer) submit(w http.ResponseWriter, r *http.Request) {
	var d job.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	status, failing := f.failing["job/submit/"]
	gate := f.gates[d.Type]
	f.mu.Unlock()
	if failing {
		http.Error(w, "simulated failure", status)
		return
	}
	if gate != nil {
		gate.entered <- struct{}{}
		select {
		case <-gate.release:
		case <-r.Context().Done():
			return
		}
	}

	f.mu.Lock()
	f.submitted = append(f.submitted, d)
	f.pending = append(f.pending, d.Meta.Filename)
	f.mu.Unlock()
}

func (f *fakeServer) fail(path string, status int) {
	f.mu.Lock()
	f.failing[path] = status
	f.mu.Unlock()
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	if path == "job/submit/" {
		f.submit(w, r)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if status, ok := f.failing[path]; ok {
		http.Error(w, "simulated failure", status)
		return
	}

	switch path {
	case "job/current/":
		writeTestJSON(w, f.pending)
	case "job/complete/":
		writeTestJSON(w, f.finished)
	case "job/workers/":
		writeTestJSON(w, f.workers)
	case "job/download/":
		id := r.URL.Query().Get("id")
		entry, ok := f.finished[id]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			writeTestJSON(w, map[string]any{"ok": false, "error": "job does not exist"})
			return
		}
		delete(f.finished, id)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=%s", entry["filename"]))
		_, _ = io.WriteString(w, f.outputs[id])
	case "srv/get/":
		writeTestJSON(w, map[string]string{"frontend_version": "0.3", "api_version": "1"})
	case "extrude/":
		name := strings.TrimSuffix(r.URL.Query().Get("filename"), filepath.Ext(r.URL.Query().Get("filename")))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=%s.stl", name))
		_, _ = io.WriteString(w, "solid extruded")
	case "colouridentify/":
		writeTestJSON(w, []string{"#000000", "#ff0000"})
	case "job/config/":
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type cliTestEnv struct {
	server      *fakeServer
	cfg         *config.Config
	configPath  string
	baseDir     string
	downloadDir string
	inputDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	fake := newFakeServer()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	opts = append([]testsupport.ConfigOption{testsupport.WithServerURL(srv.URL + "/api")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return &cliTestEnv{
		server:      fake,
		cfg:         cfg,
		configPath:  testsupport.WriteConfig(t, cfg),
		baseDir:     testsupport.BaseDir(cfg),
		downloadDir: cfg.Paths.DownloadDir,
		inputDir:    filepath.Join(testsupport.BaseDir(cfg), "inputs"),
	}
}

// input writes an image fixture and returns its path.
func (e *cliTestEnv) input(t *testing.T, name, contents string) string {
	t.Helper()
	return testsupport.WriteInput(t, e.baseDir, name, contents)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, env, "", args...)
}

func runCLIWithInput(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(context.Background(), env, stdin, args...)
}

// runCLIContext runs one command with ctx. It does not take t so it can be
// used from goroutines.
func runCLIContext(ctx context.Context, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}
