// Package config loads, normalizes, and validates jellyfinapi configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// JELLYFIN_URL and JELLYFIN_TOKEN. The Config type centralizes every knob the
// bindings and the jellyctl CLI need: server credentials, request tuning,
// identity headers, and the cloud remote-login endpoint.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
