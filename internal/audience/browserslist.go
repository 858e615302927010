// SPDX-License-Identifier: AGPL-3.0-or-later

package audience

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultQuery is the fallback browser selection used when neither an
// analytics source nor an explicit query is configured.
const DefaultQuery = ">0.5%, not dead"

//go:embed data/browsers.json
var browsersJSON []byte

type browserVersion struct {
	Version string  `json:"version"`
	Usage   float64 `json:"usage"`
}

type browser struct {
	Name     string           `json:"name"`
	Dead     bool             `json:"dead"`
	Versions []browserVersion `json:"versions"`
}

func loadBrowsers() ([]browser, error) {
	var b []browser
	if err := json.Unmarshal(browsersJSON, &b); err != nil {
		return nil, fmt.Errorf("parsing bundled browser usage table: %w", err)
	}
	return b, nil
}

// ExpandQuery expands a browserslist-style query into concrete
// "browser version" selector strings against the bundled usage table. The
// expansion is fully offline and supports the subset of the query language
// this tool documents: ">X%", ">=X%", "last N versions", "dead", "defaults",
// negation via a leading "not", and combination via "," or "or".
func ExpandQuery(query string) ([]string, error) {
	browsers, err := loadBrowsers()
	if err != nil {
		return nil, err
	}

	selected := map[string]bool{}
	for _, part := range splitQuery(query) {
		negate := false
		if strings.HasPrefix(part, "not ") {
			negate = true
			part = strings.TrimSpace(strings.TrimPrefix(part, "not "))
		}
		matched, err := expandAtom(part, browsers)
		if err != nil {
			return nil, err
		}
		for _, sel := range matched {
			if negate {
				delete(selected, sel)
			} else {
				selected[sel] = true
			}
		}
	}

	out := make([]string, 0, len(selected))
	for sel := range selected {
		out = append(out, sel)
	}
	sort.Strings(out)
	return out, nil
}

func splitQuery(query string) []string {
	query = strings.ReplaceAll(query, " or ", ",")
	raw := strings.Split(query, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.ToLower(p))
		}
	}
	return parts
}

func expandAtom(atom string, browsers []browser) ([]string, error) {
	switch {
	case atom == "defaults":
		var out []string
		for _, sub := range []string{"> 0.5%", "last 2 versions"} {
			m, err := expandAtom(strings.ToLower(sub), browsers)
			if err != nil {
				return nil, err
			}
			out = append(out, m...)
		}
		return out, nil

	case atom == "dead":
		var out []string
		for _, b := range browsers {
			if !b.Dead {
				continue
			}
			for _, v := range b.Versions {
				out = append(out, b.Name+" "+v.Version)
			}
		}
		return out, nil

	case strings.HasPrefix(atom, ">"):
		op := ">"
		rest := atom[1:]
		if strings.HasPrefix(rest, "=") {
			op = ">="
			rest = rest[1:]
		}
		rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "%"))
		threshold, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid usage query %q", atom)
		}
		var out []string
		for _, b := range browsers {
			for _, v := range b.Versions {
				if (op == ">" && v.Usage > threshold) || (op == ">=" && v.Usage >= threshold) {
					out = append(out, b.Name+" "+v.Version)
				}
			}
		}
		return out, nil

	case strings.HasPrefix(atom, "last ") && strings.HasSuffix(atom, " versions"):
		nStr := strings.TrimSuffix(strings.TrimPrefix(atom, "last "), " versions")
		n, err := strconv.Atoi(strings.TrimSpace(nStr))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid version query %q", atom)
		}
		var out []string
		for _, b := range browsers {
			// versions are stored newest first
			for i, v := range b.Versions {
				if i >= n {
					break
				}
				out = append(out, b.Name+" "+v.Version)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported browserslist query %q", atom)
	}
}

// DistinctNames reduces "browser version" selectors to the sorted set of
// distinct browser names.
func DistinctNames(selectors []string) []string {
	seen := map[string]bool{}
	for _, sel := range selectors {
		name, _, _ := strings.Cut(sel, " ")
		if name != "" {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
