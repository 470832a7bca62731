// Package pipeline orchestrates a fact-check from media input through claim
// extraction and grounded verification to a persisted record.
package pipeline
