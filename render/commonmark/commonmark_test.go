package commonmark

import (
	"testing"

	"github.com/stretchr/testify/require"

	cm "github.com/ttencate/commonmark-gfm"
)

func renderBack(t *testing.T, src string, opts cm.Options) string {
	root := cm.ParseDocument([]byte(src), opts)
	out, err := RenderString(root, opts)
	require.NoError(t, err)
	return out
}

func TestRoundTripPreservesStructure(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts cm.Options
	}{
		{"paragraph", "hello world\n", cm.NewOptions()},
		{"heading", "# Title\n", cm.NewOptions()},
		{"emphasis", "*a* **b**\n", cm.NewOptions()},
		{"blockquote", "> quoted\n", cm.NewOptions()},
		{"fenced code", "```\ncode\n```\n", cm.NewOptions()},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |\n", cm.NewOptions(cm.WithTable())},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			first := renderBack(t, c.in, c.opts)
			reparsed := cm.ParseDocument([]byte(first), c.opts)
			second, err := RenderString(reparsed, c.opts)
			require.NoError(t, err)
			require.Equal(t, first, second, "re-rendering the re-serialized source should be stable")
		})
	}
}

func TestSubtextRoundTrip(t *testing.T) {
	opts := cm.NewOptions(cm.WithSubtext())
	out := renderBack(t, "-# fine print\n", opts)
	require.Equal(t, "-# fine print\n", out)
}
