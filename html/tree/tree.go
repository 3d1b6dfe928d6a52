package tree

import (
	"bytes"
	"fmt"

	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"golang.org/x/net/html"
)

// HTML represents an HTML document parsed by net/html.
type HTML struct {
	Root    *utils.HTMLNode
	BaseUrl string

	UAStyleSheet CSS
}

// NewHTML parses the given document.
//
// `baseUrl` is the base used to resolve relative URLs
// (e.g. in “<img src="../foo.png">“). If not provided, is is infered from
// the input filename.
func NewHTML(htmlContent utils.ContentInput, baseUrl string) (*HTML, error) {
	logger.ProgressLogger.Info("Step 1 - Parsing HTML")
	content, inferedBaseUrl, err := utils.ReadContent(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("can't read html input: %w", err)
	}
	if baseUrl == "" {
		baseUrl = inferedBaseUrl
	}

	root, err := html.ParseWithOptions(bytes.NewReader(content), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("invalid html input: %w", err)
	}

	var out HTML
	// html.Parse wraps the <html> tag in a document node
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out.Root = (*utils.HTMLNode)(child)
			break
		}
	}
	if out.Root == nil {
		return nil, fmt.Errorf("invalid html input: no root element")
	}
	out.Root.Parent = nil
	out.Root.PrevSibling, out.Root.NextSibling = nil, nil
	out.BaseUrl = baseUrl
	out.UAStyleSheet = Html5UAStylesheet
	return &out, nil
}
