package api

// PendingJobs is the queue of jobs not yet picked up by a worker, as output
// filename labels in queue order.
type PendingJobs []string

// FinishedJob is one entry of the finished-jobs snapshot. Error is set only
// when OK is false.
type FinishedJob struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// FinishedJobs maps the service's job identifier to its outcome.
type FinishedJobs map[string]FinishedJob

// WorkerStats maps a worker identifier to its status label ("idle" or
// "<type> / <filename>").
type WorkerStats map[string]string

// ServerInfo reports the service's versions.
type ServerInfo struct {
	FrontendVersion string `json:"frontend_version"`
	APIVersion      string `json:"api_version"`
}

// WorkerConfig tunes the service's worker scaler.
type WorkerConfig struct {
	Max   int     `json:"max"`
	Min   int     `json:"min"`
	Ratio float64 `json:"ratio"`
}

// Colours is the palette reported by colour identification, as hex strings.
type Colours []string
