package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"relief/internal/api"
	"relief/internal/download"
	"relief/internal/job"
)

// Payload is a binary response body with its resolved filename.
type Payload struct {
	Filename string
	Data     []byte
}

// SubmitJob posts a job descriptor. The response body is opaque.
func (c *Client) SubmitJob(ctx context.Context, d job.Descriptor) error {
	_, err := c.postJSON(ctx, endpointSubmit, d, ErrSubmissionFailed)
	return err
}

// PendingJobs returns the queue of jobs not yet picked up by a worker.
func (c *Client) PendingJobs(ctx context.Context) (api.PendingJobs, error) {
	var out api.PendingJobs
	if err := c.getJSON(ctx, endpointPending, nil, ErrFetchFailed, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = api.PendingJobs{}
	}
	return out, nil
}

// FinishedJobs returns the finished-jobs snapshot.
func (c *Client) FinishedJobs(ctx context.Context) (api.FinishedJobs, error) {
	var out api.FinishedJobs
	if err := c.getJSON(ctx, endpointFinished, nil, ErrFetchFailed, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = api.FinishedJobs{}
	}
	return out, nil
}

// WorkerStats returns the status of every live worker.
func (c *Client) WorkerStats(ctx context.Context) (api.WorkerStats, error) {
	var out api.WorkerStats
	if err := c.getJSON(ctx, endpointWorkers, nil, ErrFetchFailed, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = api.WorkerStats{}
	}
	return out, nil
}

// Download fetches a finished job's output. The service forgets the job
// once it has been downloaded. fallback names the file when the response
// does not.
func (c *Client) Download(ctx context.Context, id, fallback string) (Payload, error) {
	id = strings.TrimSpace(id)
	resp, err := c.do(ctx, request{
		method:   http.MethodGet,
		endpoint: endpointDownload,
		query:    url.Values{"id": {id}},
		kind:     ErrFetchFailed,
	})
	if err != nil {
		return Payload{}, err
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = download.DefaultFilename
	}
	return Payload{Filename: download.Filename(resp.header, fallback), Data: resp.body}, nil
}

// ServerInfo returns the service's version report.
func (c *Client) ServerInfo(ctx context.Context) (api.ServerInfo, error) {
	var out api.ServerInfo
	if err := c.getJSON(ctx, endpointServerInfo, nil, ErrFetchFailed, &out); err != nil {
		return api.ServerInfo{}, err
	}
	return out, nil
}

// ConfigureWorkers updates the service's worker scaling bounds.
func (c *Client) ConfigureWorkers(ctx context.Context, cfg api.WorkerConfig) error {
	_, err := c.postJSON(ctx, endpointWorkerConfig, cfg, ErrSubmissionFailed)
	return err
}
