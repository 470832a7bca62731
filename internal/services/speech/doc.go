// Package speech wraps the external speech-to-text service. It measures
// audio duration from the container header, routes short clips through one
// synchronous recognition call (with a one-shot unspecified-encoding
// fallback), and splits long clips into 50-second segments transcribed in
// order and concatenated.
package speech
