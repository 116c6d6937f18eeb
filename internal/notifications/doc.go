// Package notifications alerts an ntfy topic when conversion jobs finish.
//
// NewService returns a no-op Service when no topic is configured, so callers
// never branch on configuration. Announcer turns successive finished-job
// snapshots into one alert per newly finished job; the first snapshot only
// seeds what has already been seen.
package notifications
