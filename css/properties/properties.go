package properties

import (
	"sort"
	"strings"

	"github.com/benoitkugler/boxtree/utils"
)

// KnownProp identifies a CSS property supported by the style computation.
type KnownProp uint8

const (
	_ KnownProp = iota
	PColor
	PDirection
	PDisplay
	PFloat
	PPosition
	PVisibility

	PBackgroundColor

	// the following properties are grouped by side,
	// in the [bottom, left, right, top] order
	PBorderBottomStyle
	PBorderBottomWidth
	PMarginBottom
	PPaddingBottom

	PBorderLeftStyle
	PBorderLeftWidth
	PMarginLeft
	PPaddingLeft

	PBorderRightStyle
	PBorderRightWidth
	PMarginRight
	PPaddingRight

	PBorderTopStyle
	PBorderTopWidth
	PMarginTop
	PPaddingTop

	PFontFamily
	PFontSize
	PFontStyle
	PFontWeight
	PLineHeight

	PLetterSpacing
	PWordSpacing
	PTabSize
	PTextAlign
	PTextDecorationLine
	PTextIndent
	PTextTransform
	PWhiteSpace

	PListStyleType
	PLang

	NbProperties
)

var propsNames = [...]string{
	PColor:      "color",
	PDirection:  "direction",
	PDisplay:    "display",
	PFloat:      "float",
	PPosition:   "position",
	PVisibility: "visibility",

	PBackgroundColor: "background-color",

	PBorderBottomStyle: "border-bottom-style",
	PBorderBottomWidth: "border-bottom-width",
	PMarginBottom:      "margin-bottom",
	PPaddingBottom:     "padding-bottom",
	PBorderLeftStyle:   "border-left-style",
	PBorderLeftWidth:   "border-left-width",
	PMarginLeft:        "margin-left",
	PPaddingLeft:       "padding-left",
	PBorderRightStyle:  "border-right-style",
	PBorderRightWidth:  "border-right-width",
	PMarginRight:       "margin-right",
	PPaddingRight:      "padding-right",
	PBorderTopStyle:    "border-top-style",
	PBorderTopWidth:    "border-top-width",
	PMarginTop:         "margin-top",
	PPaddingTop:        "padding-top",

	PFontFamily: "font-family",
	PFontSize:   "font-size",
	PFontStyle:  "font-style",
	PFontWeight: "font-weight",
	PLineHeight: "line-height",

	PLetterSpacing:      "letter-spacing",
	PWordSpacing:        "word-spacing",
	PTabSize:            "tab-size",
	PTextAlign:          "text-align",
	PTextDecorationLine: "text-decoration-line",
	PTextIndent:         "text-indent",
	PTextTransform:      "text-transform",
	PWhiteSpace:         "white-space",

	PListStyleType: "list-style-type",
	PLang:          "lang",
}

var propsFromNames = map[string]KnownProp{}

func init() {
	for i, name := range propsNames {
		if name != "" {
			propsFromNames[name] = KnownProp(i)
		}
	}
}

func (p KnownProp) String() string {
	if int(p) < len(propsNames) {
		return propsNames[p]
	}
	return "<invalid property>"
}

// PropFromName returns the property with CSS name [name],
// or false if it is not supported.
func PropFromName(name string) (KnownProp, bool) {
	p, ok := propsFromNames[strings.ToLower(name)]
	return p, ok
}

// InitialValues stores the default values for the CSS properties.
var InitialValues = Properties{
	// CSS 2.1: https://www.w3.org/TR/CSS21/propidx.html
	PColor:      "black", // chosen by the user agent
	PDirection:  "ltr",
	PDisplay:    "inline",
	PFloat:      "none",
	PPosition:   "static",
	PVisibility: "visible",

	PBackgroundColor: "transparent",

	PBorderBottomStyle: "none",
	PBorderLeftStyle:   "none",
	PBorderRightStyle:  "none",
	PBorderTopStyle:    "none",
	PBorderBottomWidth: "3px", // computed value for "medium"
	PBorderLeftWidth:   "3px",
	PBorderRightWidth:  "3px",
	PBorderTopWidth:    "3px",

	PMarginBottom:  "0px",
	PMarginLeft:    "0px",
	PMarginRight:   "0px",
	PMarginTop:     "0px",
	PPaddingBottom: "0px",
	PPaddingLeft:   "0px",
	PPaddingRight:  "0px",
	PPaddingTop:    "0px",

	PFontFamily: "serif",
	PFontSize:   "16px", // actually medium
	PFontStyle:  "normal",
	PFontWeight: "400",
	PLineHeight: "normal",

	// Text 3/4 (WD/ED): https://drafts.csswg.org/css-text-3/
	PLetterSpacing:      "normal",
	PWordSpacing:        "0px", // computed value for "normal"
	PTabSize:            "8",
	PTextAlign:          "start",
	PTextDecorationLine: "none",
	PTextIndent:         "0px",
	PTextTransform:      "none",
	PWhiteSpace:         "normal",

	PListStyleType: "disc",
	PLang:          "",
}

// Do not list shorthand properties here as we handle them before inheritance.
//
// text_decoration is not a really inherited, see
// http://www.w3.org/TR/CSS2/text.html#propdef-text-decoration
var Inherited = map[KnownProp]bool{
	PColor:         true,
	PDirection:     true,
	PVisibility:    true,
	PFontFamily:    true,
	PFontSize:      true,
	PFontStyle:     true,
	PFontWeight:    true,
	PLineHeight:    true,
	PLetterSpacing: true,
	PWordSpacing:   true,
	PTabSize:       true,
	PTextAlign:     true,
	PTextIndent:    true,
	PTextTransform: true,
	PWhiteSpace:    true,
	PListStyleType: true,
	PLang:          true,
}

// Properties is a bag of computed values, serialized as CSS strings.
// Only [PDisplay], [PWhiteSpace] and [PTextTransform] are interpreted
// by the box construction, the other values are kept for layout.
type Properties map[KnownProp]string

// Copy returns a shallow copy, safe to mutate.
func (p Properties) Copy() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the value for [key], defaulting to the initial value.
func (p Properties) Get(key KnownProp) string {
	if v, ok := p[key]; ok {
		return v
	}
	return InitialValues[key]
}

func (p Properties) GetDisplay() Display        { return Display(p.Get(PDisplay)) }
func (p Properties) GetWhiteSpace() WhiteSpace  { return WhiteSpace(p.Get(PWhiteSpace)) }
func (p Properties) GetTextTransform() string   { return p.Get(PTextTransform) }
func (p Properties) GetColor() string           { return p.Get(PColor) }
func (p Properties) GetMarginTop() string       { return p.Get(PMarginTop) }
func (p Properties) GetBorderTopStyle() string  { return p.Get(PBorderTopStyle) }
func (p Properties) GetLang() string            { return p.Get(PLang) }
func (p Properties) SetDisplay(display Display) { p[PDisplay] = string(display) }

// String returns a deterministic CSS-like serialization.
func (p Properties) String() string {
	keys := make([]KnownProp, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	chunks := make([]string, len(keys))
	for i, k := range keys {
		chunks[i] = k.String() + ": " + p[k]
	}
	return strings.Join(chunks, "; ")
}

// Display is the (single keyword) value of the 'display' property.
type Display string

// IsNone returns true for 'display: none'.
func (d Display) IsNone() bool { return d == "none" }

// WhiteSpace is the value of the 'white-space' property.
type WhiteSpace string

const (
	WsNormal  WhiteSpace = "normal"
	WsNowrap  WhiteSpace = "nowrap"
	WsPre     WhiteSpace = "pre"
	WsPreWrap WhiteSpace = "pre-wrap"
	WsPreLine WhiteSpace = "pre-line"
)

// IsCollapsible returns true if spaces collapse for this mode.
func (w WhiteSpace) IsCollapsible() bool {
	return w == WsNormal || w == WsNowrap || w == WsPreLine
}

// keywords accepted for each validated property; properties
// not listed here accept any value.
var keywords = map[KnownProp]utils.Set{
	// 'display' admits more values than the ones the box construction
	// supports: unsupported ones are rejected when building boxes.
	PDisplay: utils.NewSet("none", "block", "list-item", "inline", "inline-block",
		"table", "inline-table", "table-row-group", "table-header-group",
		"table-footer-group", "table-row", "table-column-group", "table-column",
		"table-cell", "table-caption", "flex", "inline-flex", "grid", "inline-grid",
		"flow-root", "contents"),
	PWhiteSpace:    utils.NewSet(string(WsNormal), string(WsNowrap), string(WsPre), string(WsPreWrap), string(WsPreLine)),
	PTextTransform: utils.NewSet("none", "uppercase", "lowercase", "capitalize", "full-width"),
	PFloat:         utils.NewSet("none", "left", "right"),
	PPosition:      utils.NewSet("static", "relative", "absolute", "fixed"),
	PVisibility:    utils.NewSet("visible", "hidden", "collapse"),
	PDirection:     utils.NewSet("ltr", "rtl"),
}

// Validate returns the normalized value for [key], or false if [value]
// is not acceptable. The 'inherit' and 'initial' keywords are always valid.
func Validate(key KnownProp, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	lower := strings.ToLower(value)
	if lower == "inherit" || lower == "initial" {
		return lower, true
	}
	set, ok := keywords[key]
	if !ok {
		return value, true
	}
	return lower, set.Has(lower)
}
