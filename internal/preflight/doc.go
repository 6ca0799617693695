// Package preflight provides readiness checks for the filesystem paths the
// package manager depends on. The daemon runs them at startup and refuses to
// serve when a required path is unusable; the CLI status command reuses them
// for display.
package preflight
