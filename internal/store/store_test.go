package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scormbridge/internal/manifest"
	"scormbridge/internal/services"
	"scormbridge/internal/testsupport"
)

func parseSample(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(testsupport.SampleManifestXML))
	if err != nil {
		t.Fatalf("parse sample manifest: %v", err)
	}
	return m
}

func TestCreateFromManifestRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	m := parseSample(t)
	id, err := s.CreateFromManifest(ctx, "pkg-guid-1", []byte(testsupport.SampleManifestXML), m)
	if err != nil {
		t.Fatalf("CreateFromManifest failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected storage id to be assigned")
	}

	detail, err := s.GetDetailByID(ctx, id)
	if err != nil {
		t.Fatalf("GetDetailByID failed: %v", err)
	}
	if detail.Name != "Course A" {
		t.Fatalf("package title = %q, want Course A", detail.Name)
	}
	if !detail.Active {
		t.Fatal("new packages should be active")
	}
	if detail.MultiSCO {
		t.Fatal("single resource package must not be multi-SCO")
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(detail.Items))
	}

	item := detail.Items[0]
	if item.Title != "Intro" || item.GUID != m.Items()[0].GUID {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.MasteryScore != 0 {
		t.Fatalf("absent mastery score should persist as 0, got %v", item.MasteryScore)
	}
	if item.Resource == nil {
		t.Fatal("item resource missing")
	}
	if item.Resource.Href != "index.html" {
		t.Fatalf("resource href = %q", item.Resource.Href)
	}
	if len(item.Resource.Files) != 1 || item.Resource.Files[0] != "index.html" {
		t.Fatalf("unexpected file list: %v", item.Resource.Files)
	}

	byGUID, err := s.GetDetailByGUID(ctx, "pkg-guid-1")
	if err != nil {
		t.Fatalf("GetDetailByGUID failed: %v", err)
	}
	if byGUID.ID != id {
		t.Fatalf("guid lookup returned id %d, want %d", byGUID.ID, id)
	}
}

func TestCreateFromManifestSharedResource(t *testing.T) {
	const sharedRefManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="SHARED" version="1.2">
  <organizations default="ORG1">
    <organization identifier="ORG1">
      <title>Shared Course</title>
      <item identifier="ITEM1" identifierref="RES1">
        <title>Part One</title>
      </item>
      <item identifier="ITEM2" identifierref="RES1">
        <title>Part Two</title>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="RES1" type="webcontent" href="shared.html">
      <file href="shared.html"/>
    </resource>
  </resources>
</manifest>`

	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	m, err := manifest.Parse([]byte(sharedRefManifest))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	id, err := s.CreateFromManifest(ctx, "shared-pkg", []byte(sharedRefManifest), m)
	if err != nil {
		t.Fatalf("CreateFromManifest failed for shared identifierref: %v", err)
	}

	detail, err := s.GetDetailByID(ctx, id)
	if err != nil {
		t.Fatalf("GetDetailByID failed: %v", err)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(detail.Items))
	}
	first, second := detail.Items[0], detail.Items[1]
	if first.Resource == nil || second.Resource == nil {
		t.Fatalf("both items should carry the shared resource: %+v / %+v", first, second)
	}
	if first.Resource.GUID != second.Resource.GUID {
		t.Fatalf("shared resource guid diverged: %q vs %q", first.Resource.GUID, second.Resource.GUID)
	}
	if first.Resource.Href != "shared.html" || second.Resource.Href != "shared.html" {
		t.Fatalf("unexpected hrefs: %q / %q", first.Resource.Href, second.Resource.Href)
	}
	if len(second.Resource.Files) != 1 || second.Resource.Files[0] != "shared.html" {
		t.Fatalf("second item's resource lost its file list: %v", second.Resource.Files)
	}
}

func TestCreateFromManifestPreservesItemOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	doc := `<manifest><organizations><organization><title>Ordered</title>
  <item identifier="I3" identifierref="R3"><title>Third Declared First</title></item>
  <item identifier="I1" identifierref="R1"><title>Alpha</title></item>
  <item identifier="I2" identifierref="R2"><title>Beta</title></item>
</organization></organizations>
<resources>
  <resource identifier="R1" type="webcontent" href="a.html"/>
  <resource identifier="R2" type="webcontent" href="b.html"/>
  <resource identifier="R3" type="webcontent" href="c.html"/>
</resources></manifest>`

	m, err := manifest.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := s.CreateFromManifest(ctx, "pkg-ordered", []byte(doc), m)
	if err != nil {
		t.Fatalf("CreateFromManifest failed: %v", err)
	}

	detail, err := s.GetDetailByID(ctx, id)
	if err != nil {
		t.Fatalf("GetDetailByID failed: %v", err)
	}
	want := []string{"Third Declared First", "Alpha", "Beta"}
	if len(detail.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(detail.Items))
	}
	for i, title := range want {
		if detail.Items[i].Title != title {
			t.Fatalf("item %d title = %q, want %q", i, detail.Items[i].Title, title)
		}
	}
}

func TestCreateFromManifestUnresolvedReference(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	doc := `<manifest><organizations><organization><title>Dangling</title>
  <item identifier="I1" identifierref="NOPE"><title>Orphan</title></item>
</organization></organizations>
<resources>
  <resource identifier="R1" type="webcontent" href="a.html"/>
</resources></manifest>`

	m, err := manifest.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := s.CreateFromManifest(ctx, "pkg-dangling", []byte(doc), m)
	if err != nil {
		t.Fatalf("unresolved reference must not fail ingestion: %v", err)
	}

	detail, err := s.GetDetailByID(ctx, id)
	if err != nil {
		t.Fatalf("GetDetailByID failed: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(detail.Items))
	}
	if detail.Items[0].Resource != nil {
		t.Fatalf("expected absent resource link, got %+v", detail.Items[0].Resource)
	}
}

func TestCreateFromManifestRollsBackOnDuplicateGUID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	m := parseSample(t)
	if _, err := s.CreateFromManifest(ctx, "pkg-dup", []byte(testsupport.SampleManifestXML), m); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Second write reuses the same item GUIDs, so the item insert fails and
	// the whole tree must roll back.
	_, err := s.CreateFromManifest(ctx, "pkg-dup-2", []byte(testsupport.SampleManifestXML), m)
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	if _, err := s.GetDetailByGUID(ctx, "pkg-dup-2"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("failed tree write should leave nothing behind, got %v", err)
	}
}

func TestGetDetailNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	_, err := s.GetDetailByID(context.Background(), 9999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		m := parseSample(t)
		guid := string(rune('a'+i)) + "-pkg"
		if _, err := s.CreateFromManifest(ctx, guid, []byte(testsupport.SampleManifestXML), m); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	page0, total, err := s.List(ctx, 0, 3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
	if len(page0) != 3 {
		t.Fatalf("page 0 size = %d, want 3", len(page0))
	}

	page1, _, err := s.List(ctx, 1, 3)
	if err != nil {
		t.Fatalf("List page 1 failed: %v", err)
	}
	if len(page1) != 1 {
		t.Fatalf("page 1 size = %d, want 1", len(page1))
	}
	// Newest first.
	if page0[0].GUID != "d-pkg" || page1[0].GUID != "a-pkg" {
		t.Fatalf("unexpected ordering: %v / %v", page0[0].GUID, page1[0].GUID)
	}
}

func TestUpdateMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	m := parseSample(t)
	id, err := s.CreateFromManifest(ctx, "pkg-meta", []byte(testsupport.SampleManifestXML), m)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.UpdateMetadata(ctx, id, "Renamed Course", false); err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}

	detail, err := s.GetDetailByID(ctx, id)
	if err != nil {
		t.Fatalf("GetDetailByID failed: %v", err)
	}
	if detail.Name != "Renamed Course" || detail.Active {
		t.Fatalf("metadata not applied: %+v", detail.Package)
	}

	if err := s.UpdateMetadata(ctx, 9999, "x", true); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestManifestXMLStoredVerbatim(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	m := parseSample(t)
	id, err := s.CreateFromManifest(ctx, "pkg-audit", []byte(testsupport.SampleManifestXML), m)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	raw, err := s.ManifestXML(ctx, id)
	if err != nil {
		t.Fatalf("ManifestXML failed: %v", err)
	}
	if raw != testsupport.SampleManifestXML {
		t.Fatal("audit blob must be the verbatim uploaded document")
	}
	// Generated externals must never leak into the audit copy.
	for _, item := range m.Items() {
		if item.GUID == "" {
			continue
		}
		if strings.Contains(raw, item.GUID) {
			t.Fatalf("audit blob contains generated GUID %s", item.GUID)
		}
	}
}
