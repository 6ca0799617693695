// Package store persists package aggregates in SQLite.
//
// The Store owns the normalized package/item/resource/file tree and the
// verbatim manifest audit blob. Tree writes are transactional: a package and
// its children become visible together or not at all. Reads return detail
// views in original manifest order.
//
// Schema changes bump the version in schema.go; update schema.sql alongside.
package store
