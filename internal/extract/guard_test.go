package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectGuard(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    bool
	}{
		{
			name:    "in-check idiom",
			context: `if ('startViewTransition' in document) { document.startViewTransition(render); }`,
			want:    true,
		},
		{
			name:    "in-check with double quotes",
			context: `if ("share" in navigator) { navigator.share(data); }`,
			want:    true,
		},
		{
			name: "try catch construct",
			context: `try {
  await navigator.clipboard.writeText(text);
} catch (err) {
  fallbackCopy(text);
}`,
			want: true,
		},
		{
			name:    "promise rejection handler",
			context: `navigator.clipboard?.readText?.().then(handle).catch(() => {});`,
			want:    true,
		},
		{
			name:    "unguarded usage",
			context: `document.startViewTransition(() => update());`,
			want:    false,
		},
		{
			name:    "truthiness check is not recognized",
			context: `if (document.startViewTransition) { document.startViewTransition(render); }`,
			want:    false,
		},
		{
			name:    "catch before try does not pair",
			context: `const catchAll = 1; // no try after this`,
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectGuard(tt.context))
		})
	}
}
