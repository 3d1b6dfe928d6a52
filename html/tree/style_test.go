package tree

import (
	"os"
	"path/filepath"
	"testing"

	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/utils"
	tu "github.com/benoitkugler/boxtree/utils/testutils"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseStyles(t *testing.T, source string, userStylesheets ...string) (*HTML, *StyleFor) {
	t.Helper()
	document, err := NewHTML(utils.InputString(source), "file:///")
	if err != nil {
		t.Fatal(err)
	}
	var user []CSS
	for _, css := range userStylesheets {
		sheet, err := NewCSS(utils.InputString(css))
		if err != nil {
			t.Fatal(err)
		}
		user = append(user, sheet)
	}
	return document, GetAllComputedStyles(document, user)
}

// find returns the first element with the given id, or tag if no
// element has this id.
func find(t *testing.T, document *HTML, key string) *html.Node {
	t.Helper()
	var byTag *utils.HTMLNode
	for iter := document.Root.Iter(); iter.HasNext(); {
		element := iter.Next()
		if element.Get("id") == key {
			return element.AsHtmlNode()
		}
		if byTag == nil && element.Data == key {
			byTag = element
		}
	}
	if byTag == nil {
		t.Fatalf("no element %s", key)
	}
	return byTag.AsHtmlNode()
}

func TestUserAgentStylesheet(t *testing.T) {
	capt := tu.CaptureLogs()
	document, styles := parseStyles(t, `<p>a <span>b</span><pre>c</pre><ul><li>d</ul>`)
	capt.AssertNoLogs(t)

	for _, test := range []struct {
		element string
		display pr.Display
	}{
		{"html", "block"},
		{"head", "none"},
		{"body", "block"},
		{"p", "block"},
		{"span", "inline"},
		{"li", "list-item"},
	} {
		tu.AssertEqual(t, styles.Get(find(t, document, test.element), "").GetDisplay(), test.display)
	}
	tu.AssertEqual(t, styles.Get(find(t, document, "pre"), "").GetWhiteSpace(), pr.WsPre)
	tu.AssertEqual(t, styles.Get(find(t, document, "body"), "").GetMarginTop(), "8px")
}

func TestCascadeOrder(t *testing.T) {
	document, styles := parseStyles(t, `
		<style>
			#id { color: red }
			p { color: blue; margin-top: 2px }
			p { margin-top: 3px }
			.imp { color: green !important }
		</style>
		<p id=id>a</p>
		<p>b</p>
		<p id=attr style="color: purple; margin-top: 5px">c</p>
		<p id=imp class=imp style="color: purple">d</p>
	`)
	p := styles.Get(find(t, document, "id"), "")
	// specificity wins over order
	tu.AssertEqual(t, p.GetColor(), "red")
	// same specificity: the last declaration wins
	tu.AssertEqual(t, p.GetMarginTop(), "3px")

	attr := styles.Get(find(t, document, "attr"), "")
	tu.AssertEqual(t, attr.GetColor(), "purple")
	tu.AssertEqual(t, attr.GetMarginTop(), "5px")

	tu.AssertEqual(t, styles.Get(find(t, document, "imp"), "").GetColor(), "green")
}

func TestUserStylesheets(t *testing.T) {
	document, styles := parseStyles(t, `
		<style>p { color: blue; white-space: pre !important }</style>
		<p>a</p>`,
		`p { color: red; margin-top: 7px; white-space: nowrap !important; text-transform: uppercase !important }`,
	)
	p := styles.Get(find(t, document, "p"), "")
	// author normal declarations win over user ones
	tu.AssertEqual(t, p.GetColor(), "blue")
	tu.AssertEqual(t, p.GetMarginTop(), "7px")
	// user important declarations win over everything
	tu.AssertEqual(t, p.GetWhiteSpace(), pr.WsNowrap)
	tu.AssertEqual(t, p.GetTextTransform(), "uppercase")
}

func TestInheritance(t *testing.T) {
	document, styles := parseStyles(t, `
		<body style="color: red; margin-top: 4px">
			<div id=a style="margin-top: inherit; color: initial">
				<span id=b>b</span>
			</div>
			<div id=c>c</div>
		</body>`)
	a := styles.Get(find(t, document, "a"), "")
	tu.AssertEqual(t, a.GetMarginTop(), "4px")
	tu.AssertEqual(t, a.GetColor(), "black")

	b := styles.Get(find(t, document, "b"), "")
	tu.AssertEqual(t, b.GetColor(), "black")
	tu.AssertEqual(t, b.GetMarginTop(), "0px")

	c := styles.Get(find(t, document, "c"), "")
	tu.AssertEqual(t, c.GetColor(), "red")
	tu.AssertEqual(t, c.GetMarginTop(), "0px")
}

func TestShorthands(t *testing.T) {
	capt := tu.CaptureLogs()
	document, styles := parseStyles(t, `
		<p id=a style="margin: 1px 2px; padding: 1px 2px 3px; border-style: solid none">a</p>
		<p id=b style="margin: 1px 2px 3px 4px 5px">b</p>
	`)
	capt.CheckLogs(t, "expected 1 to 4 token components for margin, got 5")

	a := styles.Get(find(t, document, "a"), "")
	for prop, value := range map[pr.KnownProp]string{
		pr.PMarginTop:         "1px",
		pr.PMarginRight:       "2px",
		pr.PMarginBottom:      "1px",
		pr.PMarginLeft:        "2px",
		pr.PPaddingTop:        "1px",
		pr.PPaddingRight:      "2px",
		pr.PPaddingBottom:     "3px",
		pr.PPaddingLeft:       "2px",
		pr.PBorderTopStyle:    "solid",
		pr.PBorderRightStyle:  "none",
		pr.PBorderTopWidth:    "3px",
		pr.PBorderRightWidth:  "0px",
		pr.PBorderBottomWidth: "3px",
	} {
		tu.AssertEqual(t, a.Get(prop), value)
	}
	// the invalid shorthand is ignored, the UA value is kept
	tu.AssertEqual(t, styles.Get(find(t, document, "b"), "").GetMarginTop(), "1em")
}

func TestInvalidDeclarations(t *testing.T) {
	capt := tu.CaptureLogs()
	document, styles := parseStyles(t, `
		<style>
			p { display: bogus; foo: 1 }
			@media print { p { color: red } }
			p:unknown-pseudo { color: green }
		</style>
		<p>a</p>`)
	capt.CheckLogs(t,
		"unsupported at-rule",
		"Ignored `display: bogus`, invalid value.",
		"Ignored `foo: 1`, unknown property.",
		"Unsupported selector",
	)

	p := styles.Get(find(t, document, "p"), "")
	tu.AssertEqual(t, p.GetDisplay(), pr.Display("block"))
	tu.AssertEqual(t, p.GetColor(), "black")
}

func TestBlockify(t *testing.T) {
	document, styles := parseStyles(t, `
		<style>html { display: inline }</style>
		<span id=float style="float: left">a</span>
		<span id=abs style="position: absolute; display: inline-block">b</span>
		<span id=rel style="position: relative">c</span>
		<span id=table style="float: right; display: inline-table">d</span>
	`)
	for _, test := range []struct {
		element string
		display pr.Display
	}{
		{"html", "block"},
		{"float", "block"},
		{"abs", "block"},
		{"rel", "inline"},
		{"table", "table"},
	} {
		tu.AssertEqual(t, styles.Get(find(t, document, test.element), "").GetDisplay(), test.display)
	}
}

func TestLang(t *testing.T) {
	document, styles := parseStyles(t, `<html lang=fr><p>a<span lang=tr>b</span></p>`)
	tu.AssertEqual(t, styles.Get(find(t, document, "p"), "").GetLang(), "fr")
	tu.AssertEqual(t, styles.Get(find(t, document, "span"), "").GetLang(), "tr")
}

func TestAnonymousBoxStyle(t *testing.T) {
	document, styles := parseStyles(t, `<div style="color: red; margin-top: 4px; display: inline-block">a</div>`)
	div := find(t, document, "div")

	anonymous := styles.Get(div, AnonymousBox)
	require.NotNil(t, anonymous)
	tu.AssertEqual(t, anonymous.GetColor(), "red")
	tu.AssertEqual(t, anonymous.GetMarginTop(), "0px")
	tu.AssertEqual(t, anonymous.GetDisplay(), pr.Display("inline"))

	// cached
	anonymous[pr.PColor] = "blue"
	tu.AssertEqual(t, styles.Get(div, AnonymousBox).GetColor(), "blue")

	// unknown elements and pseudo types
	require.Nil(t, styles.Get(div, "before"))
	require.Nil(t, styles.Get(&html.Node{Type: html.ElementNode, Data: "p"}, ""))
	require.Nil(t, styles.Get(&html.Node{Type: html.ElementNode, Data: "p"}, AnonymousBox))
}

func TestLinkedStylesheets(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "style.css"), []byte("p { color: red }"), 0o644)
	require.NoError(t, err)
	source := `
		<link rel=stylesheet href=style.css>
		<link rel="alternate stylesheet" href="missing.css">
		<link rel=stylesheet href="http://example.com/remote.css">
		<style type="text/plain">p { margin-top: 9px }</style>
		<p>a</p>`
	err = os.WriteFile(filepath.Join(dir, "doc.html"), []byte(source), 0o644)
	require.NoError(t, err)

	capt := tu.CaptureLogs()
	document, err := NewHTML(utils.InputFilename(filepath.Join(dir, "doc.html")), "")
	require.NoError(t, err)
	styles := GetAllComputedStyles(document, nil)
	capt.CheckLogs(t,
		"Failed to load stylesheet",
		`Unsupported stylesheet location "http://example.com/remote.css"`,
	)

	p := styles.Get(find(t, document, "p"), "")
	tu.AssertEqual(t, p.GetColor(), "red")
	tu.AssertEqual(t, p.GetMarginTop(), "1em")
}
