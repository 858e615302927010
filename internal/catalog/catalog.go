// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog loads the static feature and alias tables consumed by the
// scan engine. Tables are immutable for the lifetime of a scan: callers load
// them once and pass them in, there is no implicit global lookup mid-scan.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed data/features.json data/aliases.json
var defaultData embed.FS

// Status is a feature's cross-browser standardization tier.
type Status string

const (
	// StatusWidely marks features that are interoperable everywhere.
	StatusWidely Status = "widely"
	// StatusNewly marks features that only recently became interoperable.
	StatusNewly Status = "newly"
	// StatusNone marks features that are not yet interoperable.
	StatusNone Status = "none"
)

// FeatureDefinition describes one web-platform feature and its minimum
// supported browser versions.
type FeatureDefinition struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Status             Status            `json:"status"`
	MinBrowserVersions map[string]string `json:"minBrowserVersions"`
	DocLink            string            `json:"docLink,omitempty"`
}

// AliasTable maps raw source tokens (dotted member paths, selector fragments,
// tag and attribute names) to canonical feature ids. Lookups are
// case-sensitive exact matches.
type AliasTable map[string]string

// aliasSources is the on-disk shape of the alias file. The three categories
// are kept separate so a data-preparation pipeline can regenerate them
// independently; Merge order is fixed below.
type aliasSources struct {
	Script map[string]string `json:"script"`
	Style  map[string]string `json:"style"`
	Markup map[string]string `json:"markup"`
}

// Catalog is the immutable pair of tables a scan runs against.
type Catalog struct {
	Features map[string]FeatureDefinition
	Aliases  AliasTable

	// kept so the category tables can be re-exported verbatim
	sources aliasSources
}

// LoadDefault loads the tables embedded in the binary.
func LoadDefault() (*Catalog, error) {
	features, err := defaultData.ReadFile("data/features.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded features: %w", err)
	}
	aliases, err := defaultData.ReadFile("data/aliases.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded aliases: %w", err)
	}
	return build(features, aliases)
}

// Load reads features.json and aliases.json from dir. The format is exactly
// what `baseline data export` writes, so teams can substitute tables built
// from a fresh browser-compat dump.
func Load(dir string) (*Catalog, error) {
	features, err := os.ReadFile(filepath.Join(dir, "features.json"))
	if err != nil {
		return nil, fmt.Errorf("reading features table: %w", err)
	}
	aliases, err := os.ReadFile(filepath.Join(dir, "aliases.json"))
	if err != nil {
		return nil, fmt.Errorf("reading aliases table: %w", err)
	}
	return build(features, aliases)
}

func build(featuresJSON, aliasesJSON []byte) (*Catalog, error) {
	var defs []FeatureDefinition
	if err := json.Unmarshal(featuresJSON, &defs); err != nil {
		return nil, fmt.Errorf("parsing features table: %w", err)
	}

	var src aliasSources
	if err := json.Unmarshal(aliasesJSON, &src); err != nil {
		return nil, fmt.Errorf("parsing aliases table: %w", err)
	}

	features := make(map[string]FeatureDefinition, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("feature definition with empty id")
		}
		features[d.ID] = d
	}

	return &Catalog{
		Features: features,
		Aliases:  mergeAliases(src),
		sources:  src,
	}, nil
}

// mergeAliases flattens the category tables into one lookup table. The merge
// order is fixed: script, then style, then markup. A raw token defined in
// more than one category resolves to the last definition, so markup wins
// over style wins over script.
func mergeAliases(src aliasSources) AliasTable {
	merged := make(AliasTable, len(src.Script)+len(src.Style)+len(src.Markup))
	for _, table := range []map[string]string{src.Script, src.Style, src.Markup} {
		for token, id := range table {
			merged[token] = id
		}
	}
	return merged
}

// ScriptAliases returns the script-category alias table.
func (c *Catalog) ScriptAliases() map[string]string { return c.sources.Script }

// StyleAliases returns the style-category alias table.
func (c *Catalog) StyleAliases() map[string]string { return c.sources.Style }

// MarkupAliases returns the markup-category alias table.
func (c *Catalog) MarkupAliases() map[string]string { return c.sources.Markup }

// Resolve maps a raw token to its canonical feature id.
func (c *Catalog) Resolve(token string) (string, bool) {
	id, ok := c.Aliases[token]
	return id, ok
}

// ExportDefault writes the embedded tables to dir in the format Load reads.
func ExportDefault(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	for _, name := range []string{"features.json", "aliases.json"} {
		data, err := defaultData.ReadFile("data/" + name)
		if err != nil {
			return fmt.Errorf("reading embedded %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
