// Package server exposes package ingestion, inspection, and connector
// synthesis over a JSON HTTP API.
package server
