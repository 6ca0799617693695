// Package daemon coordinates the long-running scormbridged process: preflight
// checks, single-instance locking, and the lifecycle of the HTTP API server.
package daemon
