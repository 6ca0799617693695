package connector

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scormbridge/internal/config"
	"scormbridge/internal/manifest"
	"scormbridge/internal/services"
	"scormbridge/internal/store"
	"scormbridge/internal/testsupport"
)

func setupSynthesizer(t *testing.T) (*Synthesizer, *config.Config, *store.PackageDetail) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.WriteConnectorAssets(t, cfg)

	m, err := manifest.Parse([]byte(testsupport.SampleManifestXML))
	if err != nil {
		t.Fatalf("parse sample manifest: %v", err)
	}
	guid := "11111111-2222-3333-4444-555555555555"
	if _, err := st.CreateFromManifest(context.Background(), guid, []byte(testsupport.SampleManifestXML), m); err != nil {
		t.Fatalf("persist sample package: %v", err)
	}
	detail, err := st.GetDetailByGUID(context.Background(), guid)
	if err != nil {
		t.Fatalf("load sample package: %v", err)
	}
	return NewSynthesizer(cfg, st, nil), cfg, detail
}

func unzipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open connector archive: %v", err)
	}
	entries := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", file.Name, err)
		}
		entries[file.Name] = string(content)
	}
	return entries
}

func TestBuildConnector(t *testing.T) {
	synth, _, detail := setupSynthesizer(t)

	conn, err := synth.Build(context.Background(), detail.GUID, "cust-123")
	if err != nil {
		t.Fatalf("build connector: %v", err)
	}
	if conn.Filename != "Course A_connector.zip" {
		t.Fatalf("filename = %q", conn.Filename)
	}

	entries := unzipEntries(t, conn.Data)
	for _, name := range baseAssets {
		if _, ok := entries[name]; !ok {
			t.Errorf("missing base asset %s", name)
		}
	}
	if len(entries) != len(baseAssets)+1 {
		t.Fatalf("entry count = %d, want %d", len(entries), len(baseAssets)+1)
	}

	redirect := entries["redirect.html"]
	if !strings.Contains(redirect, `var client="cust-123"`) {
		t.Errorf("client placeholder not substituted: %s", redirect)
	}
	if !strings.Contains(redirect, `var player="http://player.test/scorm"`) {
		t.Errorf("player placeholder not substituted: %s", redirect)
	}
	if !strings.Contains(redirect, "#@UNKNOWN@#") {
		t.Errorf("unknown placeholder should pass through: %s", redirect)
	}

	generated := entries[manifest.EntryName]
	if !strings.Contains(generated, `identifier="MANIFEST-`+detail.GUID+`"`) {
		t.Errorf("manifest identifier missing package guid:\n%s", generated)
	}
	wantHref := "proxy.html?data=" + detail.GUID + "|" + detail.Items[0].Resource.GUID
	if !strings.Contains(generated, wantHref) {
		t.Errorf("manifest missing proxied href %q:\n%s", wantHref, generated)
	}
	if !strings.Contains(generated, `adlcp:scormtype="sco"`) {
		t.Errorf("resource not marked sco:\n%s", generated)
	}
	if !strings.Contains(generated, "<![CDATA[Intro]]>") {
		t.Errorf("item title not wrapped in CDATA:\n%s", generated)
	}
}

func TestBuildConnectorByStorageID(t *testing.T) {
	synth, _, detail := setupSynthesizer(t)

	conn, err := synth.Build(context.Background(), "1", "")
	if err != nil {
		t.Fatalf("build connector by id: %v", err)
	}
	entries := unzipEntries(t, conn.Data)
	if !strings.Contains(entries[manifest.EntryName], detail.GUID) {
		t.Fatalf("manifest does not reference package %s", detail.GUID)
	}
}

func TestBuildConnectorEmptyCustomer(t *testing.T) {
	synth, _, detail := setupSynthesizer(t)

	conn, err := synth.Build(context.Background(), detail.GUID, "")
	if err != nil {
		t.Fatalf("build connector: %v", err)
	}
	redirect := unzipEntries(t, conn.Data)["redirect.html"]
	if strings.Contains(redirect, "#@CLIENT_GUID@#") {
		t.Fatalf("client placeholder left unsubstituted: %s", redirect)
	}
	if !strings.Contains(redirect, `var client=""`) {
		t.Fatalf("empty customer should yield empty client id: %s", redirect)
	}
}

func TestBuildConnectorDeterministic(t *testing.T) {
	synth, _, detail := setupSynthesizer(t)

	first, err := synth.Build(context.Background(), detail.GUID, "cust-123")
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := synth.Build(context.Background(), detail.GUID, "cust-123")
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("repeated builds differ")
	}
}

func TestBuildConnectorMissingAssetSkipped(t *testing.T) {
	synth, cfg, detail := setupSynthesizer(t)

	if err := os.Remove(filepath.Join(cfg.Paths.ConnectorAssetsDir, "easyxdm.swf")); err != nil {
		t.Fatalf("remove asset: %v", err)
	}

	conn, err := synth.Build(context.Background(), detail.GUID, "")
	if err != nil {
		t.Fatalf("build connector: %v", err)
	}
	entries := unzipEntries(t, conn.Data)
	if _, ok := entries["easyxdm.swf"]; ok {
		t.Fatal("missing asset should be skipped, not fabricated")
	}
	if _, ok := entries[manifest.EntryName]; !ok {
		t.Fatal("manifest missing from connector")
	}
}

func TestBuildConnectorZeroItems(t *testing.T) {
	const itemlessManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="EMPTY" version="1.2">
  <organizations default="ORG1">
    <organization identifier="ORG1">
      <title>Empty Course</title>
    </organization>
  </organizations>
  <resources>
  </resources>
</manifest>`

	synth, _, _ := setupSynthesizer(t)

	m, err := manifest.Parse([]byte(itemlessManifest))
	if err != nil {
		t.Fatalf("parse itemless manifest: %v", err)
	}
	guid := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	if _, err := synth.store.CreateFromManifest(context.Background(), guid, []byte(itemlessManifest), m); err != nil {
		t.Fatalf("persist itemless package: %v", err)
	}

	conn, err := synth.Build(context.Background(), guid, "cust-123")
	if err != nil {
		t.Fatalf("build connector for empty package: %v", err)
	}
	if conn.Filename != "Empty Course_connector.zip" {
		t.Fatalf("filename = %q", conn.Filename)
	}

	entries := unzipEntries(t, conn.Data)
	generated, ok := entries[manifest.EntryName]
	if !ok {
		t.Fatal("manifest missing from connector")
	}
	if !strings.Contains(generated, `default="ORG-DEFAULT"`) {
		t.Errorf("empty organization missing:\n%s", generated)
	}
	if strings.Contains(generated, "<item ") || strings.Contains(generated, "<resource ") {
		t.Errorf("empty package should emit no items or resources:\n%s", generated)
	}
}

func TestBuildConnectorNotFound(t *testing.T) {
	synth, _, _ := setupSynthesizer(t)

	if _, err := synth.Build(context.Background(), "no-such-guid", ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
