// Command scormbridge is the operator CLI for the package manager. It ingests
// content packages, inspects the stored catalog, and synthesizes connector
// packages without requiring the daemon to be running.
package main
