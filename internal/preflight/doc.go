// Package preflight validates the environment before a fact-check run:
// directory access, service credentials, and external binaries.
package preflight
