// Package config loads, normalizes, and validates the Verity TOML
// configuration. Defaults live in defaults.go; path expansion and fallback
// filling in normalize.go; semantic checks in validate.go.
package config
