// Package testsupport provides shared helpers for package-level tests: temp
// configs, store setup, zip fixtures, and connector asset fixtures.
package testsupport

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"scormbridge/internal/config"
	"scormbridge/internal/store"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ConnectorAssetsDir = filepath.Join(base, "connector-base")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Connector.PlayerURL = "http://player.test/scorm"
	return &cfg
}

// MustOpenStore opens the package store for the given config and registers
// cleanup with the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// BuildZip assembles an in-memory zip archive from the given entries.
func BuildZip(t testing.TB, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// SampleManifestXML is a minimal valid single-SCO manifest matching the
// "Course A" fixture used across tests.
const SampleManifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest xmlns="http://www.imsproject.org/xsd/imscp_rootv1p1p2"
          xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"
          identifier="COURSE-A" version="1.2">
  <metadata>
    <schema>ADL SCORM</schema>
    <schemaversion>1.2</schemaversion>
  </metadata>
  <organizations default="ORG1">
    <organization identifier="ORG1">
      <title>Course A</title>
      <item identifier="ITEM1" identifierref="RES1">
        <title>Intro</title>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="RES1" type="webcontent" adlcp:scormtype="sco" href="index.html">
      <file href="index.html"/>
    </resource>
  </resources>
</manifest>`

// SamplePackageZip builds an uploadable archive holding SampleManifestXML and
// its declared content file.
func SamplePackageZip(t testing.TB) []byte {
	t.Helper()
	return BuildZip(t, map[string]string{
		"imsmanifest.xml": SampleManifestXML,
		"index.html":      "<html>intro</html>",
	})
}

// WriteConnectorAssets populates cfg.Paths.ConnectorAssetsDir with the full
// static base asset set, including a redirect.html carrying both placeholders.
func WriteConnectorAssets(t testing.TB, cfg *config.Config) {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.ConnectorAssetsDir, 0o755); err != nil {
		t.Fatalf("create assets dir: %v", err)
	}

	assets := map[string]string{
		"adlcp_rootv1p2.xsd":   "<xsd/>",
		"easyXDM.min.js":       "/* easyXDM */",
		"easyxdm.swf":          "FLASH",
		"ims_xml.xsd":          "<xsd/>",
		"redirect.html":        `<html><script>var client="#@CLIENT_GUID@#";var player="#@SCORM_PLAYER_URL@#";var other="#@UNKNOWN@#";</script></html>`,
		"imscp_rootv1p1p2.xsd": "<xsd/>",
		"imsmd_rootv1p1p2.xsd": "<xsd/>",
		"imsmd_rootv1p2p1.xsd": "<xsd/>",
		"jquery-1.6.1.min.js":  "/* jquery */",
		"json2.js":             "/* json2 */",
		"proxy.html":           "<html>proxy</html>",
		"SCORM_API.js":         "/* scorm api */",
		"SCORM_wrapper.html":   "<html>wrapper</html>",
	}
	for name, content := range assets {
		if err := os.WriteFile(filepath.Join(cfg.Paths.ConnectorAssetsDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write asset %s: %v", name, err)
		}
	}
}
