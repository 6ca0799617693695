// Package logging assembles structured slog loggers used across scormbridge.
//
// It owns the console/JSON handler selection, level and output plumbing, and
// context-aware helpers so service code automatically tags log lines with
// request identifiers and package GUIDs. A no-op logger is provided for tests.
package logging
