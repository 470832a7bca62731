// Command verity fact-checks media files: it extracts claim text from
// video, audio, or images, verifies it against web sources, and stores the
// verdict with normalized citations.
package main
