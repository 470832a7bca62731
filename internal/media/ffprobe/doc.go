// Package ffprobe wraps the ffprobe binary for container inspection. The
// pipeline uses it to read audio duration from the container header before
// deciding between single-call and chunked transcription.
package ffprobe
