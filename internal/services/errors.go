package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrArchive marks uploads that are not valid zip archives or that lack
	// the manifest entry entirely. Fatal to ingestion; nothing is persisted.
	ErrArchive = errors.New("archive error")
	// ErrParse marks manifests that are present but structurally invalid.
	ErrParse = errors.New("manifest parse error")
	// ErrValidation marks uploads rejected at the media-type gate, before
	// extraction begins.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for packages that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks store writes rejected mid-tree. The wrapped detail
	// names the item that failed so the caller sees the partial context.
	ErrPersistence = errors.New("persistence error")
	// ErrInternal marks failures with no more specific classification.
	ErrInternal = errors.New("internal error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a classified error to the status code the HTTP layer should
// report. Not-found conditions surface as 404 so callers can tell a missing
// package apart from an internal fault.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrArchive), errors.Is(err, ErrParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
