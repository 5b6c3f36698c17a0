// Package config defines the tunable inputs of a scan: the dev/test tag
// vocabulary, automation and expiration tag keys, and the per-provider
// reference tables (production database tiers, oversized compute shapes,
// premium cache tiers). Everything ships with built-in defaults and can be
// overridden from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only config file schema version understood.
const SupportedVersion = 1

// File is the on-disk YAML schema. Omitted sections fall back to defaults;
// present sections replace the defaults wholesale.
type File struct {
	Version        int                      `yaml:"version"`
	DevTestValues  []string                 `yaml:"devtest_values,omitempty"`
	AutomationKeys []string                 `yaml:"automation_keys,omitempty"`
	ExpirationKeys []string                 `yaml:"expiration_keys,omitempty"`
	Providers      map[string]ProviderRules `yaml:"providers,omitempty"`
}

// ProviderRules carries the reference tables for one provider.
type ProviderRules struct {
	AutomationKeysCaseSensitive *bool    `yaml:"automation_keys_case_sensitive,omitempty"`
	ProductionDatabaseTiers     []string `yaml:"production_database_tiers,omitempty"`
	OversizedComputeShapes      []string `yaml:"oversized_compute_shapes,omitempty"`
	PremiumCacheTiers           []string `yaml:"premium_cache_tiers,omitempty"`
}

// Settings is the fully resolved configuration for one provider, consumed
// by the rule evaluators.
type Settings struct {
	Provider                    string
	DevTestValues               []string
	AutomationKeys              []string
	AutomationKeysCaseSensitive bool
	ExpirationKeys              []string
	ProductionDatabaseTiers     []string
	OversizedComputeShapes      []string
	PremiumCacheTiers           []string
}

// Load reads a config file, validates its version and merges it over the
// built-in defaults for the given provider. An empty path returns the
// defaults unchanged.
func Load(path, provider string) (Settings, error) {
	settings := Defaults(provider)
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.Version != SupportedVersion {
		return Settings{}, fmt.Errorf("config %s: unsupported version %d (want %d)", path, file.Version, SupportedVersion)
	}

	if len(file.DevTestValues) > 0 {
		settings.DevTestValues = file.DevTestValues
	}
	if len(file.AutomationKeys) > 0 {
		settings.AutomationKeys = file.AutomationKeys
	}
	if len(file.ExpirationKeys) > 0 {
		settings.ExpirationKeys = file.ExpirationKeys
	}
	if pr, ok := file.Providers[provider]; ok {
		if pr.AutomationKeysCaseSensitive != nil {
			settings.AutomationKeysCaseSensitive = *pr.AutomationKeysCaseSensitive
		}
		if len(pr.ProductionDatabaseTiers) > 0 {
			settings.ProductionDatabaseTiers = pr.ProductionDatabaseTiers
		}
		if len(pr.OversizedComputeShapes) > 0 {
			settings.OversizedComputeShapes = pr.OversizedComputeShapes
		}
		if len(pr.PremiumCacheTiers) > 0 {
			settings.PremiumCacheTiers = pr.PremiumCacheTiers
		}
	}
	return settings, nil
}
