package boxes

import (
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
)

// elementHandler builds the box of an element needing special care.
// `type_` is the type the element would have as a non replaced element.
type elementHandler = func(b *builder, element *utils.HTMLNode, type_ BoxType) (BoxID, error)

var htmlHandlers map[string]elementHandler

func init() {
	// handlers call back into the builder, so the map can't
	// be statically initialized
	htmlHandlers = map[string]elementHandler{
		"img":    (*builder).handleImg,
		"embed":  (*builder).handleEmbed,
		"object": (*builder).handleObject,
	}
}

// Wrap an external content in a replaced box.
//
// That box is either block-level or inline-level, depending on what the
// element should be.
func (b *builder) makeReplacedBox(element *utils.HTMLNode, type_ BoxType, src string) BoxID {
	replacedType := InlineReplacedT
	if type_.IsBlockLevel() {
		replacedType = BlockReplacedT
	}
	box := b.tree.NewBox(replacedType, element.AsHtmlNode())
	b.tree.Box(box).Replacement = &Replacement{URL: src, Alt: element.Get("alt")}
	return box
}

// Handle “<img>“ elements, return either an image or the alt-text.
// See: http://www.w3.org/TR/html5/embedded-content-1.html#the-img-element
func (b *builder) handleImg(element *utils.HTMLNode, type_ BoxType) (BoxID, error) {
	src := element.GetUrlAttribute("src", b.baseURL)
	if src != "" {
		return b.makeReplacedBox(element, type_, src), nil
	}
	if element.HasAttr("src") {
		logger.WarningLogger.Warnf("Ignored invalid image source %q", element.Get("src"))
	}
	if alt := element.Get("alt"); alt != "" {
		box := b.tree.NewBox(type_, element.AsHtmlNode())
		b.tree.AddChild(box, b.tree.NewTextBox(element.AsHtmlNode(), alt), -1)
		return box, nil
	}
	// The element represents nothing
	return NoBox, nil
}

// Handle “<embed>“ elements, return either an external content or nothing.
// See: https://www.w3.org/TR/html5/embedded-content-0.html#the-embed-element
func (b *builder) handleEmbed(element *utils.HTMLNode, type_ BoxType) (BoxID, error) {
	if src := element.GetUrlAttribute("src", b.baseURL); src != "" {
		return b.makeReplacedBox(element, type_, src), nil
	}
	// No fallback.
	return NoBox, nil
}

// Handle “<object>“ elements, return either an external content or the fallback
// content.
// See: https://www.w3.org/TR/html5/embedded-content-0.html#the-object-element
func (b *builder) handleObject(element *utils.HTMLNode, type_ BoxType) (BoxID, error) {
	if data := element.GetUrlAttribute("data", b.baseURL); data != "" {
		return b.makeReplacedBox(element, type_, data), nil
	}
	// The element’s children are the fallback.
	return b.defaultHandler(element, type_)
}
