package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenPathEmpty(t *testing.T) {
	settings, err := Load("", "oci")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Provider != "oci" {
		t.Errorf("Provider = %q, want %q", settings.Provider, "oci")
	}
	if len(settings.DevTestValues) == 0 {
		t.Error("expected built-in dev/test values")
	}
	if settings.AutomationKeysCaseSensitive {
		t.Error("oci automation keys should be case-insensitive")
	}
	if len(settings.OversizedComputeShapes) == 0 {
		t.Error("expected built-in oversized shape table for oci")
	}
}

func TestLoadMergesOverrides(t *testing.T) {
	path := writeTemp(t, `
version: 1
devtest_values: ["sandbox"]
providers:
  aws:
    automation_keys_case_sensitive: false
    oversized_compute_shapes: ["m5.24xlarge"]
`)
	settings, err := Load(path, "aws")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(settings.DevTestValues) != 1 || settings.DevTestValues[0] != "sandbox" {
		t.Errorf("DevTestValues = %v, want [sandbox]", settings.DevTestValues)
	}
	if settings.AutomationKeysCaseSensitive {
		t.Error("override should disable case sensitivity")
	}
	if len(settings.OversizedComputeShapes) != 1 || settings.OversizedComputeShapes[0] != "m5.24xlarge" {
		t.Errorf("OversizedComputeShapes = %v, want [m5.24xlarge]", settings.OversizedComputeShapes)
	}
	// Sections not present in the file keep their defaults.
	if len(settings.AutomationKeys) == 0 {
		t.Error("AutomationKeys should keep defaults when omitted")
	}
	if len(settings.ProductionDatabaseTiers) == 0 {
		t.Error("ProductionDatabaseTiers should keep defaults when omitted")
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := writeTemp(t, "version: 99\n")
	if _, err := Load(path, "aws"); err == nil {
		t.Fatal("expected version error")
	} else if !strings.Contains(err.Error(), "unsupported version") {
		t.Errorf("error = %v, want unsupported version", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "aws"); err == nil {
		t.Fatal("expected read error for missing file")
	}
}

func TestDefaultsCaseSensitivityPerProvider(t *testing.T) {
	for provider, want := range map[string]bool{"aws": true, "azure": true, "gcp": false, "oci": false} {
		if got := Defaults(provider).AutomationKeysCaseSensitive; got != want {
			t.Errorf("Defaults(%q).AutomationKeysCaseSensitive = %v, want %v", provider, got, want)
		}
	}
}
