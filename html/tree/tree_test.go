package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/boxtree/utils"
	"github.com/stretchr/testify/require"
)

func TestNewHTML(t *testing.T) {
	document, err := NewHTML(utils.InputString("<title>t</title><p>a"), "https://example.com/")
	require.NoError(t, err)
	require.Equal(t, "html", document.Root.Data)
	require.Nil(t, document.Root.Parent)
	require.Equal(t, "https://example.com/", document.BaseUrl)

	children := document.Root.NodeChildren()
	require.Len(t, children, 2)
	require.Equal(t, "head", children[0].Data)
	require.Equal(t, "body", children[1].Data)
}

func TestNewHTMLBaseUrl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>a"), 0o644))

	document, err := NewHTML(utils.InputFilename(path), "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(document.BaseUrl, "file:///"), document.BaseUrl)
	require.True(t, strings.HasSuffix(document.BaseUrl, "/doc.html"), document.BaseUrl)

	// explicit base URL wins
	document, err = NewHTML(utils.InputFilename(path), "https://example.com/")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/", document.BaseUrl)

	_, err = NewHTML(utils.InputFilename(filepath.Join(t.TempDir(), "missing.html")), "")
	require.ErrorContains(t, err, "can't read html input")
}

func TestNewHTMLFromReader(t *testing.T) {
	document, err := NewHTML(utils.InputReader{Reader: strings.NewReader("<p>a")}, "")
	require.NoError(t, err)
	require.Empty(t, document.BaseUrl)
	require.Equal(t, "html", document.Root.Data)
}
