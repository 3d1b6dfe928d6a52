// This module takes care of steps 3 and 4 of “CSS 2.1 processing model”:
// Retrieve stylesheets associated with a document and annotate every Element
// with a value for every CSS property.
//
// http://www.w3.org/TR/CSS21/intro.html#processing-model
package tree

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/benoitkugler/boxtree/css/parser"
	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnonymousBox is the pseudo type used to key the style of the anonymous
// boxes generated for an element : it has no cascaded declarations,
// only inherited and initial values.
const AnonymousBox = "anonymous_box"

type origin uint8

const (
	originUserAgent origin = iota
	originUser
	originAuthor
)

type styleKey struct {
	element    *html.Node
	pseudoType string
}

type weight struct {
	precedence  uint8
	specificity cascadia.Specificity
	order       int
}

func (w weight) Less(other weight) bool {
	if w.precedence != other.precedence {
		return w.precedence < other.precedence
	}
	if w.specificity != other.specificity {
		return w.specificity.Less(other.specificity)
	}
	return w.order < other.order
}

type weightedValue struct {
	weight weight
	value  string
}

type cascadedStyle map[pr.KnownProp]weightedValue

func (c cascadedStyle) add(decl validDeclaration, we weight) {
	old, has := c[decl.name]
	if !has || !we.Less(old.weight) {
		c[decl.name] = weightedValue{weight: we, value: decl.value}
	}
}

// StyleFor provides a convenience function `Get` to get the computed styles for an Element.
//
// It is not safe for concurrent use, since the styles of anonymous
// boxes are computed on demand.
type StyleFor struct {
	computedStyles map[styleKey]pr.Properties
}

// Return the precedence for a declaration.
// See http://www.w3.org/TR/CSS21/cascade.html#cascading-order
func declarationPrecedence(or origin, importance bool) uint8 {
	switch {
	case or == originUserAgent:
		return 1
	case or == originUser && !importance:
		return 2
	case or == originAuthor && !importance:
		return 3
	case or == originAuthor: // && importance
		return 4
	default: // user && importance
		return 5
	}
}

type sheet struct {
	sheet  CSS
	origin origin
}

// GetAllComputedStyles computes the style of every element of the document,
// using the user agent stylesheet of `html`, the given user stylesheets
// and the author stylesheets found in the document.
func GetAllComputedStyles(html *HTML, userStylesheets []CSS) *StyleFor {
	sheets := []sheet{{sheet: html.UAStyleSheet, origin: originUserAgent}}
	for _, sh := range userStylesheets {
		sheets = append(sheets, sheet{sheet: sh, origin: originUser})
	}
	for _, sh := range findStylesheets(html.Root, html.BaseUrl) {
		sheets = append(sheets, sheet{sheet: sh, origin: originAuthor})
	}

	logger.ProgressLogger.Infof("Step 2 - Applying CSS - %d sheet(s)", len(sheets))

	out := StyleFor{computedStyles: make(map[styleKey]pr.Properties)}

	// Iterate on all elements, in tree order, so that parents have computed
	// styles before their children, for inheritance.
	iter := html.Root.Iter()
	for iter.HasNext() {
		element := iter.Next()
		cascaded := cascadedStyle{}
		for _, sh := range sheets {
			for _, m := range sh.sheet.matchers {
				if !m.selector.Match(element.AsHtmlNode()) {
					continue
				}
				for _, decl := range m.declarations {
					we := weight{
						precedence:  declarationPrecedence(sh.origin, decl.important),
						specificity: m.specificity,
						order:       m.order,
					}
					cascaded.add(decl, we)
				}
			}
		}
		for _, decl := range findStyleAttribute(element) {
			// Rules from "style" attribute have a specificity of (1, 0, 0),
			// and come after the stylesheets.
			we := weight{
				precedence:  declarationPrecedence(originAuthor, decl.important),
				specificity: cascadia.Specificity{1, 0, 0},
				order:       1 << 30,
			}
			cascaded.add(decl, we)
		}

		var parentStyle pr.Properties
		if element.Parent != nil {
			parentStyle = out.computedStyles[styleKey{element: element.Parent}]
		}
		out.computedStyles[styleKey{element: element.AsHtmlNode()}] = computedFromCascaded(element, cascaded, parentStyle)
	}

	return &out
}

// Get returns the computed style of the given element, or nil
// if it is not part of the document.
// Use [AnonymousBox] as `pseudoType` to get the style of anonymous boxes
// generated by `element`.
func (s *StyleFor) Get(element *html.Node, pseudoType string) pr.Properties {
	key := styleKey{element: element, pseudoType: pseudoType}
	if style, has := s.computedStyles[key]; has {
		return style
	}
	if pseudoType != AnonymousBox {
		return nil
	}
	parentStyle := s.computedStyles[styleKey{element: element}]
	if parentStyle == nil {
		return nil
	}
	// New pseudo element has no cascaded value, only inherited and initial values.
	style := computedFromCascaded(nil, nil, parentStyle)
	s.computedStyles[key] = style
	return style
}

// Yield the stylesheets in `root`, in source order.
func findStylesheets(root *utils.HTMLNode, baseUrl string) (out []CSS) {
	iter := root.Iter()
	for iter.HasNext() {
		element := iter.Next()
		if element.DataAtom != atom.Style && element.DataAtom != atom.Link {
			continue
		}
		mimeType := element.Get("type")
		// Only keep "type/subtype" from "type/subtype ; param1; param2".
		mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
		if mimeType != "" && mimeType != "text/css" {
			continue
		}
		switch element.DataAtom {
		case atom.Style:
			// Content is text that is directly in the <style> Element, not its
			// descendants
			content := element.Text()
			css, err := NewCSS(utils.InputString(content))
			if err != nil {
				logger.WarningLogger.Warnf("Invalid style %s: %s", content, err)
				continue
			}
			out = append(out, css)
		case atom.Link:
			if !utils.IsIn(strings.Fields(strings.ToLower(element.Get("rel"))), "stylesheet") {
				continue
			}
			href := element.GetUrlAttribute("href", baseUrl)
			u, err := url.Parse(href)
			if href == "" || err != nil || u.Scheme != "file" {
				logger.WarningLogger.Warnf("Unsupported stylesheet location %q", href)
				continue
			}
			css, err := NewCSS(utils.InputFilename(u.Path))
			if err != nil {
				logger.WarningLogger.Warnf("Failed to load stylesheet at %s: %s", href, err)
				continue
			}
			out = append(out, css)
		}
	}
	return out
}

// Return the declarations from the "style" attribute of `element`.
func findStyleAttribute(element *utils.HTMLNode) []validDeclaration {
	styleAttribute := element.Get("style")
	if strings.TrimSpace(styleAttribute) == "" {
		return nil
	}
	declarations, errs := parser.ParseDeclarationListString(styleAttribute)
	for _, err := range errs {
		logger.WarningLogger.Warnf("Ignored style attribute %q: %s", styleAttribute, err)
	}
	return preprocessDeclarations(declarations)
}

// computedFromCascaded mixes the cascaded values with the parent style.
// `element` is nil for anonymous boxes, and `parentStyle` is nil for the root element.
func computedFromCascaded(element *utils.HTMLNode, cascaded cascadedStyle, parentStyle pr.Properties) pr.Properties {
	computed := make(pr.Properties, pr.NbProperties)
	for prop := pr.KnownProp(1); prop < pr.NbProperties; prop++ {
		var value string
		cas, has := cascaded[prop]
		switch {
		case has && cas.value == "initial":
			value = pr.InitialValues[prop]
		case has && cas.value == "inherit":
			if parentStyle != nil {
				value = parentStyle.Get(prop)
			} else {
				value = pr.InitialValues[prop]
			}
		case has:
			value = cas.value
		case pr.Inherited[prop] && parentStyle != nil:
			value = parentStyle.Get(prop)
		default:
			value = pr.InitialValues[prop]
		}
		computed[prop] = value
	}

	if element != nil && element.HasAttr("lang") {
		computed[pr.PLang] = element.Get("lang")
	}

	// border-*-style is none, so border-width computes to zero.
	for _, side := range [4][2]pr.KnownProp{
		{pr.PBorderTopStyle, pr.PBorderTopWidth},
		{pr.PBorderRightStyle, pr.PBorderRightWidth},
		{pr.PBorderBottomStyle, pr.PBorderBottomWidth},
		{pr.PBorderLeftStyle, pr.PBorderLeftWidth},
	} {
		if style := computed[side[0]]; style == "none" || style == "hidden" {
			computed[side[1]] = "0px"
		}
	}

	// http://www.w3.org/TR/CSS21/visuren.html#dis-pos-flo
	isRoot := element != nil && parentStyle == nil
	float, position := computed[pr.PFloat], computed[pr.PPosition]
	if isRoot || float != "none" || position == "absolute" || position == "fixed" {
		computed.SetDisplay(blockify(computed.GetDisplay()))
	}
	return computed
}

// blockify returns the block-level equivalent of `display`.
func blockify(display pr.Display) pr.Display {
	switch display {
	case "inline", "inline-block":
		return "block"
	case "inline-table":
		return "table"
	case "inline-flex":
		return "flex"
	case "inline-grid":
		return "grid"
	case "table-row-group", "table-column", "table-column-group", "table-header-group",
		"table-footer-group", "table-row", "table-cell", "table-caption":
		return "block"
	}
	return display
}
