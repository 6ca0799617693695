package store

import "time"

// Package is the persisted aggregate header row.
type Package struct {
	ID        int64
	GUID      string
	Name      string
	Active    bool
	MultiSCO  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PackageDetail is the full read view: the package header plus its normalized
// item/resource/file tree in original manifest order.
type PackageDetail struct {
	Package
	Items []ItemDetail
}

// ItemDetail is one organization item. Resource is nil when the item's
// identifierref never resolved at ingestion time; such items have no playable
// content.
type ItemDetail struct {
	ID            int64
	GUID          string
	Identifier    string
	IdentifierRef string
	Title         string
	MasteryScore  float64
	Resource      *ResourceDetail
}

// ResourceDetail is the content entry point linked to an item.
type ResourceDetail struct {
	ID         int64
	GUID       string
	Identifier string
	Type       string
	ScormType  string
	Href       string
	Files      []string
}
