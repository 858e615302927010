// SPDX-License-Identifier: AGPL-3.0-or-later

// Package coverage estimates what fraction of a target audience can use a
// feature today.
package coverage

import (
	"math"

	"github.com/bartekus/baseline/internal/audience"
)

// Estimate computes the audience-coverage percentage for a feature, given
// its minimum browser versions, the configured audience distribution
// (possibly empty), and the distinct browser names of the fallback
// browserslist selection.
//
// A browser counts as fully covered when its name is present in
// minVersions. The version recorded for the audience is never compared
// against the feature's minimum version — a deliberate, documented
// simplification carried over from the severity contract, not an oversight
// to fix.
//
// The result is always clamped to [0, 100] and rounded to the nearest
// integer.
func Estimate(minVersions map[string]string, dist audience.Distribution, fallbackNames []string) int {
	if len(dist) > 0 {
		total := dist.Total()
		if total <= 0 {
			return 0
		}
		var covered float64
		for name, share := range dist {
			if _, ok := minVersions[name]; ok {
				covered += share
			}
		}
		return clamp(math.Round(100 * covered / total))
	}

	if len(fallbackNames) == 0 {
		return 0
	}
	supported := 0
	for _, name := range fallbackNames {
		if _, ok := minVersions[name]; ok {
			supported++
		}
	}
	return clamp(math.Round(100 * float64(supported) / float64(len(fallbackNames))))
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
