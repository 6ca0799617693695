// Package connector synthesizes downloadable proxy packages for stored
// content. A connector bundles the static proxy runtime with a generated
// manifest whose launch URLs address stored content by guid, so an external
// LMS can import the connector and play the content through the proxy.
package connector
