package preflight_test

import (
	"context"
	"path/filepath"
	"testing"

	"verity/internal/preflight"
	"verity/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	existing := t.TempDir()
	result := preflight.CheckDirectoryAccess("Data directory", existing)
	if !result.Passed {
		t.Fatalf("expected pass for writable directory, got %+v", result)
	}

	missing := filepath.Join(existing, "nope")
	result = preflight.CheckDirectoryAccess("Data directory", missing)
	if result.Passed {
		t.Fatalf("expected failure for missing directory, got %+v", result)
	}
}

func TestCredentialChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := preflight.CheckSpeech(cfg); !result.Passed {
		t.Fatalf("expected speech pass with key set, got %+v", result)
	}

	bare := testsupport.NewConfig(t, testsupport.WithSpeechKey(""), testsupport.WithVerdictKey(""))
	if result := preflight.CheckSpeech(bare); result.Passed {
		t.Fatalf("expected speech failure without key, got %+v", result)
	}
	if result := preflight.CheckVerdict(bare); result.Passed {
		t.Fatalf("expected verdict failure without key, got %+v", result)
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d: %+v", len(results), results)
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("expected all checks to pass, got %+v", result)
		}
	}
}
