// Package services holds the cross-cutting plumbing shared by the ingestion
// and connector services: the error taxonomy with its sentinel markers and
// HTTP status mapping, and context carriers for request correlation data.
//
// Wrap errors with services.Wrap so failures stay classifiable with errors.Is
// all the way up to the HTTP layer.
package services
