// Package services defines shared utilities consumed by the fact-check
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper that tag failures with the
//     category the caller layer uses to map them to rejections.
//   - Context helpers that stamp request and record identifiers for logging.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error categorization, observability) stays uniform across steps.
package services
