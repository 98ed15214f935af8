package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	commonmark "github.com/ttencate/commonmark-gfm"
)

func render(t *testing.T, src string, opts commonmark.Options) string {
	root := commonmark.ParseDocument([]byte(src), opts)
	out, err := RenderString(root, opts)
	require.NoError(t, err)
	return out
}

func TestRenderBasics(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts commonmark.Options
		want string
	}{
		{"paragraph", "hello\n", commonmark.NewOptions(), "<p>hello</p>\n"},
		{"heading", "# Title\n", commonmark.NewOptions(), "<h1>Title</h1>\n"},
		{"emphasis", "*a* **b**\n", commonmark.NewOptions(), "<p><em>a</em> <strong>b</strong></p>\n"},
		{"thematic break", "---\n", commonmark.NewOptions(), "<hr />\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, render(t, c.in, c.opts))
		})
	}
}

func TestRenderGreentext(t *testing.T) {
	out := render(t, "> not a quote\n", commonmark.NewOptions(commonmark.WithGreentext()))
	require.Equal(t, "<p class=\"greentext\">&gt; not a quote</p>\n", out)
}

func TestRenderSubtext(t *testing.T) {
	out := render(t, "-# fine print\n", commonmark.NewOptions(commonmark.WithSubtext()))
	require.Equal(t, "<p class=\"subtext\">fine print</p>\n", out)
}

func TestRenderSpecScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts commonmark.Options
		want string
	}{
		{
			"basic paragraphs and emphasis",
			"My **document**.\n\nIt's mine.\n",
			commonmark.NewOptions(),
			"<p>My <strong>document</strong>.</p>\n<p>It's mine.</p>\n",
		},
		{
			"nested list with lazy continuation",
			"- a\n  b\n- c\n",
			commonmark.NewOptions(),
			"<ul>\n<li>a\nb</li>\n<li>c</li>\n</ul>\n",
		},
		{
			"fenced code with info string",
			"```rust\nfn f() {}\n```\n",
			commonmark.NewOptions(),
			"<pre><code class=\"language-rust\">fn f() {}\n</code></pre>\n",
		},
		{
			"reference link with mixed-case space-folded label",
			"[Go]\n\n[  go  ]: /x\n",
			commonmark.NewOptions(),
			"<p><a href=\"/x\">Go</a></p>\n",
		},
		{
			"table with alignment",
			"| a | b |\n|---|:-:|\n| c | d |\n",
			commonmark.NewOptions(commonmark.WithTable()),
			"<table>\n<thead>\n<tr>\n<th>a</th>\n<th style=\"text-align: center\">b</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td>c</td>\n<td style=\"text-align: center\">d</td>\n</tr>\n</tbody>\n</table>\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, render(t, c.in, c.opts))
		})
	}
}

func TestRenderFootnoteOrdering(t *testing.T) {
	out := render(t, "A[^b] and B[^a].\n\n[^a]: one\n[^b]: two\n", commonmark.NewOptions(commonmark.WithFootnotes()))
	refB := strings.Index(out, "fnref-1-")
	refA := strings.Index(out, "fnref-2-")
	require.NotEqual(t, -1, refB)
	require.NotEqual(t, -1, refA)
	require.Less(t, refB, refA, "^b is referenced first in the text, so it gets index 1")

	defB := strings.Index(out, "<li id=\"fn-1\">")
	defA := strings.Index(out, "<li id=\"fn-2\">")
	require.NotEqual(t, -1, defB)
	require.NotEqual(t, -1, defA)
	require.Less(t, defB, defA, "definitions are emitted in reference order, not declaration order")
}

func TestRenderEscapesHTML(t *testing.T) {
	out := render(t, "a < b & c > d\n", commonmark.NewOptions())
	require.Contains(t, out, "&lt;")
	require.Contains(t, out, "&amp;")
	require.Contains(t, out, "&gt;")
}

func TestRenderTagfilterDefusesTags(t *testing.T) {
	out := render(t, "<title>x</title>\n", commonmark.NewOptions(commonmark.WithTagfilter(), commonmark.WithUnsafeHTML()))
	require.Contains(t, out, "&lt;title>")
}
