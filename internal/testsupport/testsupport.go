package testsupport

import (
	"path/filepath"
	"testing"

	"verity/internal/config"
	"verity/internal/store"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Speech.APIKey = "test"
	cfg.Verdict.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSpeechKey sets the speech service API key on the test config.
func WithSpeechKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Speech.APIKey = key
	}
}

// WithVerdictKey sets the verdict service API key on the test config.
func WithVerdictKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Verdict.APIKey = key
	}
}

// MustOpenStore opens a record store for the config and closes it when the
// test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
