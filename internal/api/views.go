package api

import (
	"slices"
	"strconv"
	"strings"
)

// FinishedRow is a finished job flattened for display.
type FinishedRow struct {
	ID string `json:"id"`
	FinishedJob
}

// WorkerRow is a worker flattened for display.
type WorkerRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Idle reports whether the worker has no job.
func (w WorkerRow) Idle() bool {
	return strings.EqualFold(strings.TrimSpace(w.Status), "idle")
}

// FinishedSlice orders finished jobs by identifier.
func FinishedSlice(jobs FinishedJobs) []FinishedRow {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(jobs))
	for id := range jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]FinishedRow, 0, len(ids))
	for _, id := range ids {
		out = append(out, FinishedRow{ID: id, FinishedJob: jobs[id]})
	}
	return out
}

// WorkerSlice orders workers by identifier, numerically when both
// identifiers are integers.
func WorkerSlice(stats WorkerStats) []WorkerRow {
	if len(stats) == 0 {
		return nil
	}
	out := make([]WorkerRow, 0, len(stats))
	for id, status := range stats {
		out = append(out, WorkerRow{ID: id, Status: status})
	}
	slices.SortFunc(out, func(a, b WorkerRow) int {
		ai, aerr := strconv.Atoi(a.ID)
		bi, berr := strconv.Atoi(b.ID)
		if aerr == nil && berr == nil {
			return ai - bi
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Busy counts workers that are processing a job.
func Busy(rows []WorkerRow) int {
	n := 0
	for _, row := range rows {
		if !row.Idle() {
			n++
		}
	}
	return n
}
