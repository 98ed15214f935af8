package xml

import (
	"testing"

	"github.com/stretchr/testify/require"

	cm "github.com/ttencate/commonmark-gfm"
)

func renderXML(t *testing.T, src string, opts cm.Options) string {
	root := cm.ParseDocument([]byte(src), opts)
	out, err := RenderString(root, opts)
	require.NoError(t, err)
	return out
}

func TestRenderHeader(t *testing.T) {
	out := renderXML(t, "hello\n", cm.NewOptions())
	require.Contains(t, out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
	require.Contains(t, out, "<document xmlns=\"http://commonmark.org/xml/1.0\">")
}

func TestRenderParagraphAndText(t *testing.T) {
	out := renderXML(t, "hello\n", cm.NewOptions())
	require.Contains(t, out, "<paragraph>")
	require.Contains(t, out, "hello")
}

func TestRenderGreentextAttribute(t *testing.T) {
	out := renderXML(t, "> not a quote\n", cm.NewOptions(cm.WithGreentext()))
	require.Contains(t, out, `greentext="true"`)
}

func TestRenderSubtextAttribute(t *testing.T) {
	out := renderXML(t, "-# fine print\n", cm.NewOptions(cm.WithSubtext()))
	require.Contains(t, out, `subtext="true"`)
}

func TestRenderTableCellAlignment(t *testing.T) {
	src := "| a | b |\n|:--|--:|\n| 1 | 2 |\n"
	out := renderXML(t, src, cm.NewOptions(cm.WithTable()))
	require.Contains(t, out, "<table_row")
	require.Contains(t, out, "<table_cell")
}
