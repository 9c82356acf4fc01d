// Package config loads, normalizes, and validates skellylogs configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment overrides such as SKELLYLOGS_LEVEL.
// It also owns the default log-file naming policy and the built-in floors
// that quiet noisy sources.
package config
