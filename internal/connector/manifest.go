package connector

import (
	"encoding/xml"
	"fmt"

	"scormbridge/internal/store"
)

const (
	manifestSchemaLocation = "http://www.imsproject.org/xsd/imscp_rootv1p1p2 imscp_rootv1p1p2.xsd http://www.imsglobal.org/xsd/imsmd_rootv1p2p1.xsd http://www.adlnet.org/xsd/adlcp_rootv1p2 adlcp_rootv1p2.xsd"
	defaultResourceType    = "webcontent"
)

// proxyResourceFiles are the support assets every synthesized resource
// references at runtime.
var proxyResourceFiles = []string{"proxy.html", "jquery-1.6.1.min.js", "SCORM_API.js"}

type manifestDoc struct {
	XMLName        xml.Name         `xml:"manifest"`
	XMLNS          string           `xml:"xmlns,attr"`
	XMLNSADLCP     string           `xml:"xmlns:adlcp,attr"`
	XMLNSXSI       string           `xml:"xmlns:xsi,attr"`
	Identifier     string           `xml:"identifier,attr"`
	Version        string           `xml:"version,attr"`
	SchemaLocation string           `xml:"xsi:schemaLocation,attr"`
	Metadata       manifestMetadata `xml:"metadata"`
	Organizations  organizationsDoc `xml:"organizations"`
	Resources      resourcesDoc     `xml:"resources"`
}

type manifestMetadata struct {
	Schema        string `xml:"schema"`
	SchemaVersion string `xml:"schemaversion"`
}

type organizationsDoc struct {
	Default      string          `xml:"default,attr"`
	Organization organizationDoc `xml:"organization"`
}

type organizationDoc struct {
	Identifier string     `xml:"identifier,attr"`
	Structure  string     `xml:"structure,attr"`
	Title      cdataValue `xml:"title"`
	Items      []itemDoc  `xml:"item"`
}

type itemDoc struct {
	Identifier    string     `xml:"identifier,attr"`
	IsVisible     string     `xml:"isvisible,attr"`
	IdentifierRef string     `xml:"identifierref,attr,omitempty"`
	Title         cdataValue `xml:"title"`
}

type resourcesDoc struct {
	Resources []resourceDoc `xml:"resource"`
}

type resourceDoc struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	Href       string    `xml:"href,attr"`
	ScormType  string    `xml:"adlcp:scormtype,attr"`
	Files      []fileDoc `xml:"file"`
}

type fileDoc struct {
	Href string `xml:"href,attr"`
}

type cdataValue struct {
	Value string `xml:",cdata"`
}

// buildManifest generates the connector manifest for a persisted package.
// Item and resource order matches the original item order. Items whose
// original reference never resolved are emitted without identifierref and
// produce no resource. Every synthesized resource is marked "sco" since the
// embedding player reaches all entry points through the same proxy.
func buildManifest(detail *store.PackageDetail) ([]byte, error) {
	doc := manifestDoc{
		XMLNS:          "http://www.imsproject.org/xsd/imscp_rootv1p1p2",
		XMLNSADLCP:     "http://www.adlnet.org/xsd/adlcp_rootv1p2",
		XMLNSXSI:       "http://www.w3.org/2001/XMLSchema-instance",
		Identifier:     "MANIFEST-" + detail.GUID,
		Version:        "1",
		SchemaLocation: manifestSchemaLocation,
		Metadata: manifestMetadata{
			Schema:        "ADL SCORM",
			SchemaVersion: "1.2",
		},
		Organizations: organizationsDoc{
			Default: "ORG-DEFAULT",
			Organization: organizationDoc{
				Identifier: "ORG-DEFAULT",
				Structure:  "hierarchical",
				Title:      cdataValue{Value: detail.Name},
			},
		},
	}

	files := make([]fileDoc, 0, len(proxyResourceFiles))
	for _, name := range proxyResourceFiles {
		files = append(files, fileDoc{Href: name})
	}

	for _, item := range detail.Items {
		entry := itemDoc{
			Identifier: item.GUID,
			IsVisible:  "true",
			Title:      cdataValue{Value: item.Title},
		}
		if item.Resource != nil {
			entry.IdentifierRef = item.Resource.GUID

			resourceType := item.Resource.Type
			if resourceType == "" {
				resourceType = defaultResourceType
			}
			doc.Resources.Resources = append(doc.Resources.Resources, resourceDoc{
				Identifier: item.Resource.GUID,
				Type:       resourceType,
				Href:       fmt.Sprintf("proxy.html?data=%s|%s", detail.GUID, item.Resource.GUID),
				ScormType:  "sco",
				Files:      files,
			})
		}
		doc.Organizations.Organization.Items = append(doc.Organizations.Organization.Items, entry)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal connector manifest: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
