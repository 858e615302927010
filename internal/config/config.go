// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the scan configuration. Configuration is read once by
// the caller and passed into the engine — nothing reads it implicitly
// mid-scan.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/baseline/internal/audience"
)

// Override adjusts the classification of a single feature.
type Override struct {
	// MinCoverage forces a violation when computed coverage falls below it,
	// even when Severity lowers the classification.
	MinCoverage *int `yaml:"minCoverage,omitempty"`
	// Severity replaces the computed severity unconditionally.
	Severity string `yaml:"severity,omitempty"`
}

// Config is the full scan configuration surface.
type Config struct {
	// Profile is informational and shows up in logs only.
	Profile string `yaml:"profile,omitempty"`

	CoverageBudget        int                 `yaml:"coverageBudget"`
	TreatNewlyAsViolation bool                `yaml:"treatNewlyAsViolation"`
	Ignore                []string            `yaml:"ignore,omitempty"`
	Overrides             map[string]Override `yaml:"overrides,omitempty"`

	// AnalyticsSource points at a CSV of browser,share rows. When empty the
	// BrowserslistQuery selection estimates coverage instead.
	AnalyticsSource   string `yaml:"analyticsSource,omitempty"`
	BrowserslistQuery string `yaml:"browserslistQuery,omitempty"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		CoverageBudget:    95,
		BrowserslistQuery: audience.DefaultQuery,
	}
}

// Load reads path, substituting defaults for anything unset. A missing file
// is not an error: the defaults apply in full.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.CoverageBudget < 0 || cfg.CoverageBudget > 100 {
		return cfg, fmt.Errorf("coverageBudget must be within 0..100, got %d", cfg.CoverageBudget)
	}
	if cfg.BrowserslistQuery == "" {
		cfg.BrowserslistQuery = audience.DefaultQuery
	}
	return cfg, nil
}

// Ignored reports whether a feature id is excluded from classification.
func (c Config) Ignored(featureID string) bool {
	for _, id := range c.Ignore {
		if id == featureID {
			return true
		}
	}
	return false
}
