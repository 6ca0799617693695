package manifest

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"scormbridge/internal/services"
)

type xmlManifest struct {
	Identifier    string            `xml:"identifier,attr"`
	Version       string            `xml:"version,attr"`
	Metadata      *xmlMetadata      `xml:"metadata"`
	Organizations *xmlOrganizations `xml:"organizations"`
	Resources     *xmlResources     `xml:"resources"`
}

type xmlMetadata struct {
	Schema        string `xml:"schema"`
	SchemaVersion string `xml:"schemaversion"`
}

type xmlOrganizations struct {
	Default       string            `xml:"default,attr"`
	Organizations []xmlOrganization `xml:"organization"`
}

type xmlOrganization struct {
	Identifier string    `xml:"identifier,attr"`
	Title      string    `xml:"title"`
	Items      []xmlItem `xml:"item"`
}

type xmlItem struct {
	Identifier    string `xml:"identifier,attr"`
	IdentifierRef string `xml:"identifierref,attr"`
	Title         string `xml:"title"`
	MasteryScore  string `xml:"masteryscore"`
}

type xmlResources struct {
	Resources []xmlResource `xml:"resource"`
}

type xmlResource struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	ScormType  string    `xml:"scormtype,attr"`
	Href       string    `xml:"href,attr"`
	Files      []xmlFile `xml:"file"`
}

type xmlFile struct {
	Href string `xml:"href,attr"`
}

// Parse decodes a manifest document into the normalized model and mints
// external identifiers for every item and resource. The decode fails fast with
// a parse error when the document does not carry the minimal expected shape:
// a first organization and a resources element.
func Parse(data []byte) (*Manifest, error) {
	var doc xmlManifest
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "manifest", "decode", "", err)
	}

	if doc.Organizations == nil || len(doc.Organizations.Organizations) == 0 {
		return nil, services.Wrap(services.ErrParse, "manifest", "decode", "no organization declared", nil)
	}
	if doc.Resources == nil {
		return nil, services.Wrap(services.ErrParse, "manifest", "decode", "no resources element", nil)
	}

	m := &Manifest{
		Identifier: doc.Identifier,
		Version:    doc.Version,
	}
	if doc.Metadata != nil {
		m.Schema = strings.TrimSpace(doc.Metadata.Schema)
	}

	for _, org := range doc.Organizations.Organizations {
		parsed := Organization{Title: strings.TrimSpace(org.Title)}
		for _, item := range org.Items {
			parsed.Items = append(parsed.Items, Item{
				GUID:          uuid.NewString(),
				Identifier:    item.Identifier,
				Title:         strings.TrimSpace(item.Title),
				IdentifierRef: item.IdentifierRef,
				MasteryScore:  parseMasteryScore(item.MasteryScore),
			})
		}
		m.Organizations = append(m.Organizations, parsed)
	}
	m.Title = m.Organizations[0].Title

	for _, res := range doc.Resources.Resources {
		files := make([]string, 0, len(res.Files))
		for _, file := range res.Files {
			if file.Href != "" {
				files = append(files, file.Href)
			}
		}
		m.Resources = append(m.Resources, Resource{
			GUID:       uuid.NewString(),
			Identifier: res.Identifier,
			Type:       res.Type,
			ScormType:  res.ScormType,
			Href:       res.Href,
			Files:      files,
		})
	}

	m.MultiSCO = len(m.Resources) > 1
	return m, nil
}

func parseMasteryScore(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	score, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &score
}
