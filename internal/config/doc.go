// Package config loads, normalizes, and validates scormbridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the default location or an explicit
// path. The Config type centralizes every knob the daemon and CLI need: the
// content data directory, connector asset location, HTTP bind address, and
// logging shape.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
