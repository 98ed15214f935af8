package commonmark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlerts(t *testing.T) {
	t.Run("single line quote form", func(t *testing.T) {
		root := ParseDocument([]byte("> [!NOTE]\n> heads up\n"), NewOptions(WithAlerts()))
		alerts := filterKind(root, Alert)
		require.Len(t, alerts, 1)
		av := alerts[0].Value().(*AlertValue)
		require.Equal(t, "note", av.AlertType)
		require.Equal(t, "Note", av.Title)
		require.False(t, av.Multiline)
		require.Len(t, filterKind(alerts[0], Paragraph), 1)
	})

	t.Run("unknown type stays a block quote", func(t *testing.T) {
		root := ParseDocument([]byte("> [!BOGUS]\n> text\n"), NewOptions(WithAlerts()))
		require.Empty(t, filterKind(root, Alert))
		require.Len(t, filterKind(root, BlockQuote), 1)
	})

	t.Run("multiline fence form", func(t *testing.T) {
		src := ">>> [!WARNING]\nfirst\n\nsecond\n>>>\nafter\n"
		root := ParseDocument([]byte(src), NewOptions(WithAlerts(), WithMultilineBlockQuotes()))
		alerts := filterKind(root, Alert)
		require.Len(t, alerts, 1)
		require.True(t, alerts[0].Value().(*AlertValue).Multiline)
		require.Len(t, filterKind(alerts[0], Paragraph), 2)
	})
}

func TestMultilineBlockQuote(t *testing.T) {
	src := ">>>\na paragraph\n\n- a list\n>>>\n"
	root := ParseDocument([]byte(src), NewOptions(WithMultilineBlockQuotes()))
	quotes := filterKind(root, MultilineBlockQuote)
	require.Len(t, quotes, 1)
	require.Len(t, filterKind(quotes[0], Paragraph), 2)
	require.Len(t, filterKind(quotes[0], List), 1)
}

func TestMathDollars(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		literal string
		display bool
	}{
		{"inline", "cost $x+y$ total\n", "x+y", false},
		{"display", "$$\\int f$$\n", "\\int f", true},
		{"escaped dollar inside", "$a\\$b$\n", "a$b", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root := ParseDocument([]byte(c.in), NewOptions(WithMathDollars()))
			maths := filterKind(root, Math)
			require.Len(t, maths, 1)
			mv := maths[0].Value().(*MathValue)
			require.Equal(t, c.literal, mv.Literal)
			require.Equal(t, c.display, mv.DisplayMath)
		})
	}

	t.Run("price-like dollars stay text", func(t *testing.T) {
		root := ParseDocument([]byte("$5 and $10\n"), NewOptions(WithMathDollars()))
		require.Empty(t, filterKind(root, Math))
	})
}

func TestMathCode(t *testing.T) {
	root := ParseDocument([]byte("see $`a^2`$ here\n"), NewOptions(WithMathCode()))
	maths := filterKind(root, Math)
	require.Len(t, maths, 1)
	mv := maths[0].Value().(*MathValue)
	require.Equal(t, "a^2", mv.Literal)
	require.True(t, mv.CodeFence)
}

func TestWikilinks(t *testing.T) {
	t.Run("title after pipe", func(t *testing.T) {
		root := ParseDocument([]byte("[[Page|shown]]\n"), NewOptions(WithWikilinksTitleAfterPipe()))
		links := filterKind(root, WikiLink)
		require.Len(t, links, 1)
		require.Equal(t, "Page", links[0].Value().(*WikiLinkValue).URL)
		texts := filterKind(links[0], Text)
		require.Len(t, texts, 1)
		require.Equal(t, "shown", texts[0].Value().(*TextValue).Literal)
	})

	t.Run("title before pipe", func(t *testing.T) {
		root := ParseDocument([]byte("[[shown|Page]]\n"), NewOptions(WithWikilinksTitleBeforePipe()))
		links := filterKind(root, WikiLink)
		require.Len(t, links, 1)
		require.Equal(t, "Page", links[0].Value().(*WikiLinkValue).URL)
	})

	t.Run("unclosed falls back to brackets", func(t *testing.T) {
		root := ParseDocument([]byte("[[nope\n"), NewOptions(WithWikilinksTitleAfterPipe()))
		require.Empty(t, filterKind(root, WikiLink))
	})
}

func TestShortcodes(t *testing.T) {
	root := ParseDocument([]byte("ship it :rocket: now\n"), NewOptions(WithShortcodes()))
	codes := filterKind(root, ShortCode)
	require.Len(t, codes, 1)
	sv := codes[0].Value().(*ShortCodeValue)
	require.Equal(t, "rocket", sv.Code)
	require.Equal(t, "🚀", sv.Emoji)
}

func TestSpoiler(t *testing.T) {
	root := ParseDocument([]byte("the killer is ||the butler||\n"), NewOptions(WithSpoiler()))
	spoilers := filterKind(root, SpoileredText)
	require.Len(t, spoilers, 1)
	texts := filterKind(spoilers[0], Text)
	require.Len(t, texts, 1)
	require.Equal(t, "the butler", texts[0].Value().(*TextValue).Literal)
}

func TestSuperscriptAndSubscript(t *testing.T) {
	root := ParseDocument([]byte("x^2^ and H~2~O\n"), NewOptions(WithSuperscript(), WithSubscript()))
	require.Len(t, filterKind(root, Superscript), 1)
	require.Len(t, filterKind(root, Subscript), 1)
}

func TestStrikethroughNeedsExtension(t *testing.T) {
	root := ParseDocument([]byte("~~gone~~\n"), NewOptions())
	require.Empty(t, filterKind(root, Strikethrough))
}

func TestDescriptionLists(t *testing.T) {
	src := "Term\n: details here\n"
	root := ParseDocument([]byte(src), NewOptions(WithDescriptionLists()))
	require.Len(t, filterKind(root, DescriptionList), 1)
	require.Len(t, filterKind(root, DescriptionItem), 1)
	terms := filterKind(root, DescriptionTerm)
	require.Len(t, terms, 1)
	texts := filterKind(terms[0], Text)
	require.Len(t, texts, 1)
	require.Equal(t, "Term", texts[0].Value().(*TextValue).Literal)
	require.Len(t, filterKind(root, DescriptionDetails), 1)
}

func TestFrontMatter(t *testing.T) {
	src := "---\ntitle: Hello\ndraft: true\n---\nbody text\n"
	root := ParseDocument([]byte(src), NewOptions(WithFrontMatterDelimiter("---")))
	fms := filterKind(root, FrontMatter)
	require.Len(t, fms, 1)
	fv := fms[0].Value().(*FrontMatterValue)
	require.NoError(t, fv.DecodeErr)
	require.Equal(t, "Hello", fv.Data["title"])
	require.Equal(t, true, fv.Data["draft"])
	require.Len(t, filterKind(root, Paragraph), 1)
}

func TestEscapedCharSpans(t *testing.T) {
	root := ParseDocument([]byte("a \\* b\n"), NewOptions(WithEscapedCharSpans()))
	escs := filterKind(root, Escaped)
	require.Len(t, escs, 1)
	require.Equal(t, "*", escs[0].Value().(*EscapedValue).Literal)
}

func TestBrokenLinkCallback(t *testing.T) {
	opts := NewOptions(WithBrokenLinkCallback(func(normalized, original string) (string, string, bool) {
		require.Equal(t, "MISSING", normalized)
		require.Equal(t, "missing", original)
		return "/rescued", "saved", true
	}))
	root := ParseDocument([]byte("[missing]\n"), opts)
	links := filterKind(root, Link)
	require.Len(t, links, 1)
	lv := links[0].Value().(*LinkValue)
	require.Equal(t, "/rescued", lv.URL)
	require.Equal(t, "saved", lv.Title)
}

func TestLinkLabelLengthBound(t *testing.T) {
	label := strings.Repeat("x", maxLinkLabelLength+1)
	src := "[" + label + "]\n\n[" + label + "]: /y\n"
	root := ParseDocument([]byte(src), NewOptions())
	require.Empty(t, filterKind(root, Link))
}

func TestBalancedParenDepthBound(t *testing.T) {
	deep := strings.Repeat("(", maxBalancedParenDepth+1) + "x" + strings.Repeat(")", maxBalancedParenDepth+1)
	src := "[a](" + deep + ")\n"
	root := ParseDocument([]byte(src), NewOptions())
	require.Empty(t, filterKind(root, Link))
}

func TestLongBacktickRunStaysText(t *testing.T) {
	src := strings.Repeat("`", 81) + "x" + strings.Repeat("`", 81) + "\n"
	root := ParseDocument([]byte(src), NewOptions())
	require.Empty(t, filterKind(root, Code))
}

func TestAutolinkAngleForms(t *testing.T) {
	root := ParseDocument([]byte("<https://x.example> and <me@example.com>\n"), NewOptions())
	links := filterKind(root, Link)
	require.Len(t, links, 2)
	require.Equal(t, "https://x.example", links[0].Value().(*LinkValue).URL)
	require.Equal(t, "mailto:me@example.com", links[1].Value().(*LinkValue).URL)
}

func TestWWWAndEmailAutolinks(t *testing.T) {
	root := ParseDocument([]byte("go to www.example.com or mail root@example.com now\n"), NewOptions(WithAutolink()))
	links := filterKind(root, Link)
	require.Len(t, links, 2)
	require.Equal(t, "http://www.example.com", links[0].Value().(*LinkValue).URL)
	require.Equal(t, "mailto:root@example.com", links[1].Value().(*LinkValue).URL)
}

func TestAutolinkTrailingPunctuationTrimmed(t *testing.T) {
	root := ParseDocument([]byte("see http://example.com/a, ok\n"), NewOptions(WithAutolink()))
	links := filterKind(root, Link)
	require.Len(t, links, 1)
	require.Equal(t, "http://example.com/a", links[0].Value().(*LinkValue).URL)
}
