package connector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"scormbridge/internal/archive"
	"scormbridge/internal/config"
	"scormbridge/internal/logging"
	"scormbridge/internal/manifest"
	"scormbridge/internal/services"
	"scormbridge/internal/store"
)

// baseAssets is the static proxy runtime shipped inside every connector. Order
// is the archive entry order.
var baseAssets = []string{
	"adlcp_rootv1p2.xsd",
	"easyXDM.min.js",
	"easyxdm.swf",
	"ims_xml.xsd",
	"redirect.html",
	"imscp_rootv1p1p2.xsd",
	"imsmd_rootv1p1p2.xsd",
	"imsmd_rootv1p2p1.xsd",
	"jquery-1.6.1.min.js",
	"json2.js",
	"proxy.html",
	"SCORM_API.js",
	"SCORM_wrapper.html",
}

// Connector is a synthesized proxy package ready for download.
type Connector struct {
	Filename string
	Data     []byte
}

// Synthesizer builds connector packages on demand. Each Build call assembles
// its own archive; the synthesizer holds no per-request state.
type Synthesizer struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewSynthesizer constructs the connector synthesizer.
func NewSynthesizer(cfg *config.Config, st *store.Store, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{cfg: cfg, store: st, logger: logger}
}

// Build synthesizes the connector for the package identified by ref, which may
// be a numeric storage id or a package guid. customer is substituted into the
// redirect asset; an empty customer leaves an empty client identifier in
// place. The same stored package always yields the same archive contents.
func (s *Synthesizer) Build(ctx context.Context, ref, customer string) (*Connector, error) {
	detail, err := s.store.ResolveDetail(ctx, ref)
	if err != nil {
		return nil, err
	}

	ctx = services.WithPackageGUID(ctx, detail.GUID)
	log := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldComponent, "connector"))

	manifestXML, err := buildManifest(detail)
	if err != nil {
		return nil, err
	}

	builder := archive.NewBuilder()
	for _, name := range baseAssets {
		content, err := os.ReadFile(filepath.Join(s.cfg.Paths.ConnectorAssetsDir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("connector asset missing, skipped", logging.String("asset", name))
				continue
			}
			return nil, fmt.Errorf("read connector asset %q: %w", name, err)
		}
		if name == redirectAsset {
			content = renderRedirect(content, customer, s.cfg.Connector.PlayerURL)
		}
		if err := builder.AddBytes(name, content); err != nil {
			return nil, err
		}
	}
	if err := builder.AddBytes(manifest.EntryName, manifestXML); err != nil {
		return nil, err
	}

	data, err := builder.Bytes()
	if err != nil {
		return nil, err
	}

	log.Info("connector synthesized",
		logging.Int64("storage_id", detail.ID),
		logging.String("customer", customer),
		logging.Int("items", len(detail.Items)),
		logging.Int("bytes", len(data)))

	return &Connector{
		Filename: detail.Name + "_connector.zip",
		Data:     data,
	}, nil
}
