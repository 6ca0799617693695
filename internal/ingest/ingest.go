package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"scormbridge/internal/archive"
	"scormbridge/internal/config"
	"scormbridge/internal/logging"
	"scormbridge/internal/manifest"
	"scormbridge/internal/services"
	"scormbridge/internal/store"
)

var zipMediaTypes = map[string]struct{}{
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/zip-compressed":   {},
}

// Upload is one uploaded content package as received from the transport layer.
type Upload struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Result summarizes a completed ingestion.
type Result struct {
	StorageID int64
	GUID      string
	Title     string
	MultiSCO  bool
	Items     int
}

// Service ingests uploaded content packages: extraction, manifest parsing,
// identity assignment, and persistence. Each call is request-scoped; the
// service itself holds no mutable state.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewService constructs the ingestion service.
func NewService(cfg *config.Config, st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{cfg: cfg, store: st, logger: logger}
}

// Ingest processes one uploaded archive end to end and returns the persisted
// package's identifiers. Extraction completes fully before parsing begins;
// the tree write is transactional. On parse failure the extracted files are
// left for an out-of-band sweep, nothing is persisted.
func (s *Service) Ingest(ctx context.Context, upload Upload) (*Result, error) {
	if err := checkMediaType(upload.MediaType); err != nil {
		return nil, err
	}

	guid := uuid.NewString()
	ctx = services.WithPackageGUID(ctx, guid)
	log := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldComponent, "ingest"))

	destination := s.cfg.PackageDir(guid)
	if err := archive.Extract(upload.Data, destination); err != nil {
		return nil, err
	}

	rawManifest, err := os.ReadFile(filepath.Join(destination, manifest.EntryName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrArchive, "ingest", "read manifest", "missing manifest", nil)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := manifest.Parse(rawManifest)
	if err != nil {
		log.Warn("manifest rejected, extracted files orphaned",
			logging.String("destination", destination), logging.Error(err))
		return nil, err
	}

	if strings.TrimSpace(m.Title) == "" {
		m.Title = deriveTitle(upload.Filename)
	}

	storageID, err := s.store.CreateFromManifest(ctx, guid, rawManifest, m)
	if err != nil {
		return nil, err
	}

	items := m.Items()
	log.Info("package ingested",
		logging.Int64("storage_id", storageID),
		logging.String("title", m.Title),
		logging.Bool("multisco", m.MultiSCO),
		logging.Int("items", len(items)),
		logging.Int("resources", len(m.Resources)))

	return &Result{
		StorageID: storageID,
		GUID:      guid,
		Title:     m.Title,
		MultiSCO:  m.MultiSCO,
		Items:     len(items),
	}, nil
}

func checkMediaType(value string) error {
	parsed, _, err := mime.ParseMediaType(value)
	if err != nil {
		return services.Wrap(services.ErrValidation, "ingest", "media type", fmt.Sprintf("unparseable media type %q", value), nil)
	}
	if _, ok := zipMediaTypes[parsed]; !ok {
		return services.Wrap(services.ErrValidation, "ingest", "media type", fmt.Sprintf("upload must be a zip archive, got %q", parsed), nil)
	}
	return nil
}
