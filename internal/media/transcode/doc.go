// Package transcode wraps ffmpeg for the media preparation step: extracting
// audio from video, re-encoding audio into the mono 16kHz PCM format the
// transcription service requires, and cutting time-range segments for
// chunked transcription of long clips.
package transcode
