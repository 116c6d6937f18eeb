package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"relief/internal/api"
	"relief/internal/staging"
)

func renderStaging(view staging.View) string {
	if len(view.Rows) == 0 {
		return "No files staged\n"
	}
	rows := make([][]string, 0, len(view.Rows))
	var total uint64
	for _, row := range view.Rows {
		size := uint64(row.Size())
		total += size
		rows = append(rows, []string{
			strconv.Itoa(row.Position),
			row.ID,
			row.Name,
			humanize.Bytes(size),
			moveHint(row),
		})
	}
	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"#", "ID", "Name", "Size", "Move"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignCenter},
	))
	fmt.Fprintf(&b, "%d staged, %s\n", len(view.Rows), humanize.Bytes(total))
	return b.String()
}

func moveHint(row staging.Row) string {
	switch {
	case row.CanMoveUp && row.CanMoveDown:
		return "up/down"
	case row.CanMoveUp:
		return "up"
	case row.CanMoveDown:
		return "down"
	default:
		return "-"
	}
}

func renderPending(pending api.PendingJobs) string {
	if len(pending) == 0 {
		return "No jobs queued\n"
	}
	rows := make([][]string, 0, len(pending))
	for i, label := range pending {
		rows = append(rows, []string{strconv.Itoa(i + 1), label})
	}
	return renderTable([]string{"#", "Filename"}, rows, []columnAlignment{alignRight, alignLeft})
}

func renderFinished(finished api.FinishedJobs) string {
	entries := api.FinishedSlice(finished)
	if len(entries) == 0 {
		return "No finished jobs\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		result := "ready"
		if !entry.OK {
			result = "error: " + entry.Error
		}
		rows = append(rows, []string{entry.ID, entry.Filename, result})
	}
	var b strings.Builder
	b.WriteString(renderTable([]string{"ID", "Filename", "Result"}, rows, nil))
	b.WriteString("Fetch a result with: relief download <id>\n")
	return b.String()
}

func renderWorkers(stats api.WorkerStats) string {
	workers := api.WorkerSlice(stats)
	if len(workers) == 0 {
		return "No workers running\n"
	}
	rows := make([][]string, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, []string{w.ID, w.Status})
	}
	var b strings.Builder
	b.WriteString(renderTable([]string{"Worker", "Status"}, rows, []columnAlignment{alignRight, alignLeft}))
	fmt.Fprintf(&b, "%d workers, %d busy\n", len(workers), api.Busy(workers))
	return b.String()
}
