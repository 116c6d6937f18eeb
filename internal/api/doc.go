// Package api defines the JSON payloads exchanged with the conversion
// service and deterministic row views of them for rendering.
//
// The service reports its queue, finished jobs and workers as whole
// snapshots. PendingJobs is already ordered; FinishedJobs and WorkerStats are
// maps and are flattened by FinishedSlice and WorkerSlice into rows sorted by
// identifier so repeated renders of the same snapshot are stable.
package api
