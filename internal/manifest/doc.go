// Package manifest decodes SCORM 1.2 package manifests (imsmanifest.xml) into
// a normalized domain model.
//
// Parsing takes the first organization as authoritative, preserves item order
// as declared, and mints a random external GUID for every item and resource so
// author-chosen manifest identifiers never leak across package boundaries.
package manifest
