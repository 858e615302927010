package audience

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalyticsCSV(t *testing.T) {
	in := strings.NewReader("chrome,70\nfirefox,30\n")

	dist, warnings, err := ParseAnalyticsCSV(in)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Distribution{"chrome": 70, "firefox": 30}, dist)
	assert.InDelta(t, 100, dist.Total(), 0.001)
}

func TestParseAnalyticsCSVHeaderAndBadRows(t *testing.T) {
	in := strings.NewReader(`browser,share
Chrome,61.5
safari,not-a-number
edge,5
`)
	dist, warnings, err := ParseAnalyticsCSV(in)
	require.NoError(t, err)

	assert.Len(t, warnings, 1, "bad row is skipped, not fatal")
	assert.Contains(t, warnings[0], "safari")
	assert.Equal(t, Distribution{"chrome": 61.5, "edge": 5}, dist)
}

func TestParseAnalyticsCSVDuplicatesAccumulate(t *testing.T) {
	in := strings.NewReader("chrome,40\nchrome,20\n")

	dist, _, err := ParseAnalyticsCSV(in)
	require.NoError(t, err)
	assert.InDelta(t, 60, dist["chrome"], 0.001)
}

func TestExpandQueryUsage(t *testing.T) {
	selectors, err := ExpandQuery(">0.5%, not dead")
	require.NoError(t, err)
	require.NotEmpty(t, selectors)

	for _, sel := range selectors {
		assert.NotContains(t, sel, "ie ", "dead browsers are subtracted")
	}
	assert.Contains(t, selectors, "chrome 126")

	names := DistinctNames(selectors)
	assert.Contains(t, names, "chrome")
	assert.Contains(t, names, "safari")
	assert.NotContains(t, names, "ie")
}

func TestExpandQueryLastVersions(t *testing.T) {
	selectors, err := ExpandQuery("last 1 versions")
	require.NoError(t, err)

	perBrowser := map[string]int{}
	for _, sel := range selectors {
		name := strings.SplitN(sel, " ", 2)[0]
		perBrowser[name]++
	}
	for name, n := range perBrowser {
		assert.Equal(t, 1, n, "browser %s", name)
	}
}

func TestExpandQueryDefaults(t *testing.T) {
	selectors, err := ExpandQuery("defaults")
	require.NoError(t, err)
	assert.NotEmpty(t, selectors)
}

func TestExpandQueryUnsupported(t *testing.T) {
	_, err := ExpandQuery("since 2020")
	assert.Error(t, err)
}

func TestExpandQueryDeterministic(t *testing.T) {
	a, err := ExpandQuery(DefaultQuery)
	require.NoError(t, err)
	b, err := ExpandQuery(DefaultQuery)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
