package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"relief/internal/api"
	"relief/internal/config"
	"relief/internal/notifications"
)

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newNtfyServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), reqs...)
	}
}

func serviceFor(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if notifications.Enabled(svc) {
		t.Fatal("expected no-op service without a topic")
	}
	if err := svc.NotifyJobFinished(context.Background(), "1", api.FinishedJob{Filename: "a.stl", OK: true}); err != nil {
		t.Fatalf("expected no-op notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		job            api.FinishedJob
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:          "finished",
			job:           api.FinishedJob{Filename: "logo.stl", OK: true},
			expectTitle:   "Relief - Job Finished",
			expectMessage: "Ready to download: logo.stl (7)\nrelief download 7",
			expectTags:    "relief,job,finished",
		},
		{
			name:           "failed",
			job:            api.FinishedJob{Filename: "logo.3mf", Error: "mesh error"},
			expectTitle:    "Relief - Job Failed",
			expectMessage:  "Conversion failed: logo.3mf (7)\nmesh error",
			expectTags:     "relief,job,failed",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, requests := newNtfyServer(t, http.StatusOK)
			if err := serviceFor(srv.URL).NotifyJobFinished(context.Background(), "7", tc.job); err != nil {
				t.Fatalf("NotifyJobFinished: %v", err)
			}
			got := requests()
			if len(got) != 1 {
				t.Fatalf("expected one request, got %d", len(got))
			}
			req := got[0]
			if req.title != tc.expectTitle {
				t.Fatalf("title = %q, want %q", req.title, tc.expectTitle)
			}
			if req.body != tc.expectMessage {
				t.Fatalf("message = %q, want %q", req.body, tc.expectMessage)
			}
			if req.tags != tc.expectTags {
				t.Fatalf("tags = %q, want %q", req.tags, tc.expectTags)
			}
			if req.priority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", req.priority, tc.expectPriority)
			}
		})
	}
}

func TestNtfyServiceReportsErrorStatus(t *testing.T) {
	srv, _ := newNtfyServer(t, http.StatusForbidden)
	err := serviceFor(srv.URL).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ntfy returned 403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

type recordingService struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recordingService) NotifyJobFinished(_ context.Context, id string, _ api.FinishedJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return r.err
}

func (r *recordingService) TestNotification(context.Context) error { return nil }

func TestAnnouncerSeedsThenAlertsNewJobs(t *testing.T) {
	svc := &recordingService{}
	a := notifications.NewAnnouncer(svc, nil)
	ctx := context.Background()

	if n := a.Observe(ctx, api.FinishedJobs{"1": {Filename: "old.stl", OK: true}}); n != 0 {
		t.Fatalf("first snapshot alerted %d jobs", n)
	}
	if n := a.Observe(ctx, api.FinishedJobs{
		"1": {Filename: "old.stl", OK: true},
		"3": {Filename: "c.svg", OK: true},
		"2": {Filename: "b.stl", OK: false, Error: "boom"},
	}); n != 2 {
		t.Fatalf("expected 2 alerts, got %d", n)
	}
	if strings.Join(svc.ids, ",") != "2,3" {
		t.Fatalf("unexpected alert order %v", svc.ids)
	}

	// Job 1 was downloaded; if its id is reused it counts as new.
	a.Observe(ctx, api.FinishedJobs{"3": {Filename: "c.svg", OK: true}})
	if n := a.Observe(ctx, api.FinishedJobs{"1": {Filename: "new.stl", OK: true}, "3": {Filename: "c.svg", OK: true}}); n != 1 {
		t.Fatalf("expected reused id to alert once, got %d", n)
	}
}

func TestAnnouncerSurvivesDeliveryFailure(t *testing.T) {
	svc := &recordingService{err: errors.New("offline")}
	a := notifications.NewAnnouncer(svc, nil)
	ctx := context.Background()

	a.Observe(ctx, api.FinishedJobs{})
	if n := a.Observe(ctx, api.FinishedJobs{"9": {Filename: "x.stl", OK: true}}); n != 1 {
		t.Fatalf("expected one attempt, got %d", n)
	}
	if n := a.Observe(ctx, api.FinishedJobs{"9": {Filename: "x.stl", OK: true}}); n != 0 {
		t.Fatalf("failed alert must not be retried, got %d", n)
	}
}
