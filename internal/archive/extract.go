package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"scormbridge/internal/services"
)

// Extract unpacks raw zip bytes into destination, creating intermediate
// directories as needed. Every entry is fully written before Extract returns;
// downstream manifest parsing reads the extracted files and must not race the
// writes. Re-extracting to the same destination overwrites existing files.
func Extract(data []byte, destination string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return services.Wrap(services.ErrArchive, "archive", "open", "not a valid zip archive", err)
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("create destination %q: %w", destination, err)
	}

	for _, entry := range reader.File {
		if err := extractEntry(entry, destination); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destination string) error {
	target, err := entryPath(destination, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", target, err)
	}

	src, err := entry.Open()
	if err != nil {
		return services.Wrap(services.ErrArchive, "archive", "read entry", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %q: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)
		return services.Wrap(services.ErrArchive, "archive", "write entry", entry.Name, err)
	}
	return dst.Close()
}

// entryPath resolves an archive entry name under destination and rejects
// entries that would escape it.
func entryPath(destination, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." {
		return destination, nil
	}
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == ".." {
		return "", services.Wrap(services.ErrArchive, "archive", "extract", fmt.Sprintf("entry %q escapes destination", name), nil)
	}
	return filepath.Join(destination, cleaned), nil
}

// ReadEntry returns the contents of a single named entry without extracting
// the archive. Returns os.ErrNotExist when the entry is absent.
func ReadEntry(data []byte, name string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, services.Wrap(services.ErrArchive, "archive", "open", "not a valid zip archive", err)
	}

	for _, entry := range reader.File {
		if entry.Name == name {
			src, err := entry.Open()
			if err != nil {
				return nil, services.Wrap(services.ErrArchive, "archive", "read entry", name, err)
			}
			defer src.Close()
			return io.ReadAll(src)
		}
	}
	return nil, os.ErrNotExist
}
