// Package archive handles zip extraction for uploaded content packages and
// zip assembly for synthesized connectors.
//
// Extraction is synchronous: it returns only after every entry is fully
// written, so callers can read extracted files immediately. The Builder is
// request-scoped; never share one across concurrent synthesis requests.
package archive
