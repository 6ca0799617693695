// Package ingest turns uploaded content package archives into persisted
// package aggregates: media type validation, synchronous extraction to the
// content directory, manifest parsing with identity assignment, and one
// transactional tree write.
package ingest
