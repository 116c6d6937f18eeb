// Command relief stages images, submits conversion jobs to a relief server,
// and watches the server's queue, finished jobs and workers.
//
// Staged files persist between invocations in the state directory, so
// "relief stage add", "relief submit" and "relief watch" can run as separate
// commands. Snapshot commands accept --json for machine-readable output.
// "relief logs" reads the client's own log file, where every request is
// tagged with its correlation id.
package main
