package manifest

// EntryName is the well-known manifest filename at the root of every content package.
const EntryName = "imsmanifest.xml"

// Manifest is the normalized in-memory form of a package manifest. It exists
// only during ingestion; the store persists the normalized tree plus the raw
// document as an audit blob, never this struct.
type Manifest struct {
	Identifier    string
	Version       string
	Schema        string
	Title         string
	MultiSCO      bool
	Organizations []Organization
	Resources     []Resource
}

// Organization is a declared hierarchy of learning items. Only the first
// organization in a manifest is authoritative; the rest are parsed but ignored
// downstream.
type Organization struct {
	Title string
	Items []Item
}

// Item is a learning activity inside an organization. GUID is the system-minted
// external identifier; Identifier and IdentifierRef are the author-chosen
// manifest-internal values.
type Item struct {
	GUID          string
	Identifier    string
	Title         string
	IdentifierRef string
	// MasteryScore is nil when the manifest declares none. Defaulting to zero
	// happens at the persistence boundary, not here.
	MasteryScore *float64
}

// Resource is a declared content entry point plus its supporting files.
type Resource struct {
	GUID       string
	Identifier string
	Type       string
	ScormType  string
	Href       string
	// Files holds archive-root-relative paths. Empty, never nil, when the
	// resource declares no file entries.
	Files []string
}

// ResourceByIdentifier resolves an item's identifierref against the manifest's
// resources. Returns nil when the reference does not resolve; callers treat
// that as a recognized edge case, not an error.
func (m *Manifest) ResourceByIdentifier(identifier string) *Resource {
	if identifier == "" {
		return nil
	}
	for i := range m.Resources {
		if m.Resources[i].Identifier == identifier {
			return &m.Resources[i]
		}
	}
	return nil
}

// Items returns the authoritative item sequence: the first organization's
// items in original manifest order.
func (m *Manifest) Items() []Item {
	if len(m.Organizations) == 0 {
		return nil
	}
	return m.Organizations[0].Items
}
