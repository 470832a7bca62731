// Package citations normalizes the verdict provider's grounding metadata
// into a stable citation list, degrading to a URL scan of the verdict text
// when the metadata is missing or malformed.
package citations
