package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/baseline/internal/catalog"
)

func sampleReport() *Report {
	return &Report{
		Features: map[string]*FeatureUsage{
			"urlpattern": {
				ID:    "urlpattern",
				Count: 1,
				Hits: []Hit{
					{File: "src/router.ts", Line: 3, Column: 17, Snippet: "new URLPattern({})"},
				},
				Status:             catalog.StatusNone,
				Coverage:           24,
				Severity:           SeverityError,
				MinBrowserVersions: map[string]string{"chrome": "95", "edge": "95"},
			},
			"popover": {
				ID:    "popover",
				Count: 2,
				Hits: []Hit{
					{File: "index.html", Line: 7, Column: 6, Snippet: `<div popover id="menu">`},
					{File: "styles/app.css", Line: 2, Column: 3, Snippet: "animation-name: popover-in"},
				},
				Status:             catalog.StatusNewly,
				Coverage:           91,
				Severity:           SeverityWarn,
				MinBrowserVersions: map[string]string{"chrome": "114", "firefox": "125", "safari": "17"},
			},
		},
		Summary: Summary{
			Violations:     []string{"urlpattern"},
			Warnings:       []string{"popover"},
			Pass:           false,
			CoverageBudget: 95,
			Achieved:       69,
		},
		Diagnostics: []Diagnostic{
			{File: "legacy/broken.css", Message: "tokenizing stylesheet at 4:1: bad token"},
		},
	}
}

func TestEncodeIsStable(t *testing.T) {
	r := sampleReport()

	a, err := r.Encode()
	require.NoError(t, err)
	b, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	orig := sampleReport()
	require.NoError(t, Write(path, orig))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, orig.Features, loaded.Features)
	assert.Equal(t, orig.Summary, loaded.Summary)
	assert.Equal(t, orig.Diagnostics, loaded.Diagnostics)

	// re-serialization preserves bytes and hit ordering
	origBytes, err := orig.Encode()
	require.NoError(t, err)
	loadedBytes, err := loaded.Encode()
	require.NoError(t, err)
	assert.Equal(t, origBytes, loadedBytes)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestHasViolations(t *testing.T) {
	r := sampleReport()
	assert.True(t, r.HasViolations())

	clean := &Report{Summary: Summary{Pass: true}}
	assert.False(t, clean.HasViolations())
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("warn")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarn, s)

	_, err = ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityInfo.Rank(), SeverityWarn.Rank())
	assert.Less(t, SeverityWarn.Rank(), SeverityError.Rank())
}

func TestRenderMentionsVerdictAndHits(t *testing.T) {
	out := Render(sampleReport())
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "urlpattern")
	assert.Contains(t, out, "src/router.ts:3:17")
}
