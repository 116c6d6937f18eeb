package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relief/internal/api"
	"relief/internal/config"
)

const userAgent = "relief/0.1"

// Service defines the alerts relief can send.
type Service interface {
	NotifyJobFinished(ctx context.Context, id string, job api.FinishedJob) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed service when a topic is configured and a
// no-op otherwise.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NotificationTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether svc delivers anything.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyJobFinished(ctx context.Context, id string, job api.FinishedJob) error {
	name := strings.TrimSpace(job.Filename)
	if name == "" {
		name = "unnamed"
	}
	if !job.OK {
		reason := strings.TrimSpace(job.Error)
		if reason == "" {
			reason = "unknown error"
		}
		return n.send(ctx, payload{
			title:    "Relief - Job Failed",
			message:  fmt.Sprintf("Conversion failed: %s (%s)\n%s", name, id, reason),
			tags:     []string{"relief", "job", "failed"},
			priority: "high",
		})
	}
	return n.send(ctx, payload{
		title:   "Relief - Job Finished",
		message: fmt.Sprintf("Ready to download: %s (%s)\nrelief download %s", name, id, id),
		tags:    []string{"relief", "job", "finished"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Relief - Test",
		message:  "Notification system test",
		tags:     []string{"relief", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobFinished(context.Context, string, api.FinishedJob) error { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
