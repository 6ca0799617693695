package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Builder assembles a zip archive in memory. Each synthesis request creates
// its own Builder; entries and buffers are per-call state and must not be
// shared across concurrent requests.
type Builder struct {
	buf    bytes.Buffer
	writer *zip.Writer
	closed bool
}

// NewBuilder returns an empty request-scoped archive builder.
func NewBuilder() *Builder {
	b := &Builder{}
	b.writer = zip.NewWriter(&b.buf)
	return b
}

// AddBytes stores content under name inside the archive.
func (b *Builder) AddBytes(name string, content []byte) error {
	if b.closed {
		return fmt.Errorf("archive builder already finalized")
	}
	entry, err := b.writer.Create(name)
	if err != nil {
		return fmt.Errorf("create entry %q: %w", name, err)
	}
	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("write entry %q: %w", name, err)
	}
	return nil
}

// AddFile streams the file at path into the archive under name.
func (b *Builder) AddFile(name, path string) error {
	if b.closed {
		return fmt.Errorf("archive builder already finalized")
	}
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer src.Close()

	entry, err := b.writer.Create(name)
	if err != nil {
		return fmt.Errorf("create entry %q: %w", name, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("write entry %q: %w", name, err)
	}
	return nil
}

// Bytes finalizes the archive and returns its raw contents. The builder cannot
// be reused afterwards.
func (b *Builder) Bytes() ([]byte, error) {
	if !b.closed {
		if err := b.writer.Close(); err != nil {
			return nil, fmt.Errorf("finalize archive: %w", err)
		}
		b.closed = true
	}
	return b.buf.Bytes(), nil
}
