package boxes

import (
	"errors"
	"fmt"

	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/html/tree"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
	"golang.org/x/net/html"
)

// BuildFormattingStructure builds a formatting structure (box tree) from the
// document and its computed styles, and normalizes it:
//   - whitespace processing
//   - text transforms
//   - inline-level content wrapped in line and anonymous block boxes
//   - block-level boxes nested in inline boxes split out
//
// The returned error matches [ErrUnsupportedDisplay] for unsupported content,
// and [ErrPrecondition] for inconsistent inputs. In both cases no tree is returned.
func BuildFormattingStructure(document *tree.HTML, styles StyleProvider) (out *Tree, err error) {
	defer func() {
		if err != nil {
			out = nil
		}
	}()
	defer catchPrecondition(&err)

	logger.ProgressLogger.Info("Step 3 - Creating formatting structure")

	out = NewTree(styles)
	root, err := BuildBox(out, document.Root.AsHtmlNode(), document.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("building the formatting structure: %w", err)
	}
	if root == NoBox {
		return nil, errors.New("building the formatting structure: the root element generates no box")
	}
	out.SetRoot(root)

	ProcessWhitespace(out, root)
	ProcessTextTransform(out, root)
	InlineInBlock(out, root)
	BlockInInline(out, root)

	if err := CheckInvariants(out, root); err != nil {
		preconditionf("invalid box tree: %s", err)
	}
	return out, nil
}

// catchPrecondition must be deferred : it turns a [PreconditionError] panic
// into an error stored in `err`. Other panics are propagated.
func catchPrecondition(err *error) {
	if r := recover(); r != nil {
		pe, ok := r.(*PreconditionError)
		if !ok {
			panic(r)
		}
		*err = fmt.Errorf("building the formatting structure: %w", pe)
	}
}

// builder stores the context needed to build the boxes of one document.
type builder struct {
	tree    *Tree
	baseURL string
}

// BuildBox converts an element (and its children) into a box (with children),
// allocated in `t`. The returned box is not normalized : text is raw, and
// block-level and inline-level boxes may be mixed.
//
// For instance
//
//	<p>Some <em>emphasised</em> text.<p>
//
// gives (not actual syntax)
//
//	BlockBox[
//		TextBox('Some '),
//		InlineBox[
//			TextBox('emphasised'),
//		],
//		TextBox(' text.'),
//	]
//
// TextBox`es are anonymous inline boxes:
// http://www.w3.org/TR/CSS21/visuren.html#anonymous
//
// `baseURL` is used to resolve the URLs of replaced elements.
// [NoBox] is returned, without error, for elements representing nothing,
// like an <img> without source nor alternative text.
//
// The element must not have a 'display: none' style.
func BuildBox(t *Tree, element *html.Node, baseURL string) (BoxID, error) {
	b := builder{tree: t, baseURL: baseURL}
	return b.elementToBox((*utils.HTMLNode)(element))
}

func (b *builder) elementToBox(element *utils.HTMLNode) (BoxID, error) {
	style := b.tree.styles.Get(element.AsHtmlNode(), "")
	if style == nil {
		preconditionf("no computed style for element <%s>", element.Data)
	}

	display := style.GetDisplay()
	if display.IsNone() {
		preconditionf("can't build a box for element <%s> with 'display: none'", element.Data)
	}

	type_, err := boxTypeFor(display, element.Data)
	if err != nil {
		return NoBox, err
	}

	if handler, ok := htmlHandlers[element.Data]; ok {
		return handler(b, element, type_)
	}
	return b.defaultHandler(element, type_)
}

// boxTypeFor classifies the non replaced boxes.
func boxTypeFor(display pr.Display, tag string) (BoxType, error) {
	switch display {
	case "block", "list-item":
		// TODO: add a box for the marker of list items
		return BlockT, nil
	case "inline":
		return InlineT, nil
	case "inline-block":
		return InlineBlockT, nil
	default:
		return invalidType, &UnsupportedDisplayError{Display: display, Element: tag}
	}
}

// defaultHandler builds a box of the given type, with its children.
func (b *builder) defaultHandler(element *utils.HTMLNode, type_ BoxType) (BoxID, error) {
	box := b.tree.NewBox(type_, element.AsHtmlNode())
	if err := b.addChildren(box, element); err != nil {
		return NoBox, err
	}
	return box, nil
}

// addChildren builds the text and the children elements of
// `element`, in document order.
func (b *builder) addChildren(box BoxID, element *utils.HTMLNode) error {
	node := element.AsHtmlNode()
	if text := element.Text(); text != "" {
		b.tree.AddChild(box, b.tree.NewTextBox(node, text), -1)
	}
	for _, child := range element.NodeChildren() {
		if !b.tree.styles.Get(child.AsHtmlNode(), "").GetDisplay().IsNone() {
			childBox, err := b.elementToBox(child)
			if err != nil {
				return err
			}
			if childBox != NoBox {
				b.tree.AddChild(box, childBox, -1)
			}
		}
		if tail := child.Tail(); tail != "" {
			b.tree.AddChild(box, b.tree.NewTextBox(node, tail), -1)
		}
	}
	return nil
}
