package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, fs afero.Fs, args ...string) (stdout string, err error) {
	root := newRootCmdWithFs(fs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func TestRenderHTML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("# Title\n\nhello\n"), 0o644))

	out, err := runCmd(t, fs, "render", "doc.md", "--to", "html")
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Title</h1>")
	require.Contains(t, out, "<p>hello</p>")
}

func TestRenderToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("hello\n"), 0o644))

	_, err := runCmd(t, fs, "render", "doc.md", "--to", "xml", "--out", "doc.xml")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "doc.xml")
	require.NoError(t, err)
	require.Contains(t, string(data), "<document")
}

func TestRenderUnknownFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("hello\n"), 0o644))

	_, err := runCmd(t, fs, "render", "doc.md", "--to", "bogus")
	require.Error(t, err)
}

func TestASTTextFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("# Title\n"), 0o644))

	out, err := runCmd(t, fs, "ast", "doc.md", "--format", "text")
	require.NoError(t, err)
	require.Contains(t, out, "Heading")
	require.Contains(t, out, "Text \"Title\"")
}

func TestASTXMLFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("# Title\n"), 0o644))

	out, err := runCmd(t, fs, "ast", "doc.md")
	require.NoError(t, err)
	require.Contains(t, out, "<heading")
}

func TestRenderMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := runCmd(t, fs, "render", "missing.md")
	require.Error(t, err)
}

func TestWatchRequiresOut(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "doc.md", []byte("hello\n"), 0o644))

	_, err := runCmd(t, fs, "render", "doc.md", "--watch")
	require.Error(t, err)
}
