// Package config loads, normalizes, and validates relief configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the RELIEF_SERVER_URL environment
// fallback. The Config type centralizes the service URL, local state and
// download directories, job defaults, poll cadence, and logging knobs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
