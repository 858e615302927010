package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/baseline/internal/catalog"
)

func scriptAliases(t *testing.T) map[string]string {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return c.ScriptAliases()
}

func TestScriptMemberAndGuard(t *testing.T) {
	src := []byte(`export function capture() {
  if (document.startViewTransition) {
    document.startViewTransition(() => update());
  }
  navigator.clipboard?.readText?.().then(handle).catch(() => {});
}
`)
	res, err := Script(context.Background(), "app.js", src, scriptAliases(t), DetectGuard)
	require.NoError(t, err)

	byToken := map[string][]Occurrence{}
	for _, o := range res.Occurrences {
		byToken[o.Token] = append(byToken[o.Token], o)
	}

	require.Len(t, byToken["document.startViewTransition"], 2)
	require.Len(t, byToken["navigator.clipboard"], 1)

	clip := byToken["navigator.clipboard"][0]
	assert.Equal(t, 5, clip.Line)
	assert.True(t, clip.Guarded, "rejection handler should mark the hit guarded")
	assert.Contains(t, clip.Snippet, "navigator.clipboard")
}

func TestScriptBareIdentifiers(t *testing.T) {
	src := []byte(`const copy = structuredClone(state);
const canvas = new OffscreenCanvas(300, 150);
const route = new URLPattern({ pathname: '/books/:id' });
`)
	res, err := Script(context.Background(), "util.mjs", src, scriptAliases(t), DetectGuard)
	require.NoError(t, err)

	tokens := map[string]int{}
	for _, o := range res.Occurrences {
		tokens[o.Token]++
	}
	assert.Equal(t, 1, tokens["structuredClone"])
	assert.Equal(t, 1, tokens["OffscreenCanvas"])
	assert.Equal(t, 1, tokens["URLPattern"])
}

func TestScriptToleratesTypedAndJSX(t *testing.T) {
	src := []byte(`type Props = { title: string };

export const SharePane = ({ title }: Props) => (
  <button onClick={() => navigator.share({ title })}>{title}</button>
);
`)
	res, err := Script(context.Background(), "pane.tsx", src, scriptAliases(t), DetectGuard)
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, "navigator.share", res.Occurrences[0].Token)
	assert.Equal(t, 4, res.Occurrences[0].Line)
}

func TestScriptInCheckIdiom(t *testing.T) {
	src := []byte(`if ('startViewTransition' in document) {
  document.startViewTransition(render);
}
`)
	res, err := Script(context.Background(), "guarded.js", src, scriptAliases(t), DetectGuard)
	require.NoError(t, err)

	require.Len(t, res.Occurrences, 1)
	assert.True(t, res.Occurrences[0].Guarded)
}

func TestScriptNoMatches(t *testing.T) {
	res, err := Script(context.Background(), "plain.js", []byte("const a = 1 + 1;\n"), scriptAliases(t), DetectGuard)
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)
}
