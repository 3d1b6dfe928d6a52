// Package boxes defines the box tree of the CSS formatting structure, built
// from a styled HTML tree, following http://www.w3.org/TR/CSS21/visuren.html
//
// Names are the same as in CSS 2.1 with the exception of TextBox: any text
// is in a TextBox. What CSS calls anonymous inline boxes are text boxes
// but not all text boxes are anonymous inline boxes.
//
// Apart from LineBox, all box types have one of the following "outside" behavior:
//   - Block-level
//   - Inline-level
//
// and one of the following "inside" behavior:
//   - Block container
//   - Inline content
//   - Replaced content
//
// Boxes live in a [Tree] and are addressed by [BoxID] handles: restructuring
// the tree only moves handles around.
package boxes

import (
	"fmt"

	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/html/tree"
	"golang.org/x/net/html"
)

// BoxType is the concrete kind of a box.
type BoxType uint8

const (
	invalidType BoxType = iota
	// BlockT is a block-level box that is also a block container.
	BlockT
	// AnonymousBlockT wraps inline-level boxes where block-level boxes are needed.
	AnonymousBlockT
	// LineT is eventually a line in an inline formatting context. Can only contain
	// inline-level boxes.
	LineT
	// InlineT participates in an inline formatting context and its content
	// also participates in that inline formatting context.
	InlineT
	// InlineBlockT is inline-level on the outside and a block container on the inside.
	InlineBlockT
	// TextT contains only text and has no box children.
	TextT
	// BlockReplacedT is both replaced and block-level.
	BlockReplacedT
	// InlineReplacedT is both replaced and inline-level.
	InlineReplacedT
)

// Outside is the way a box participates in its parent formatting context.
type Outside uint8

const (
	// OutsideNone is used for line boxes, internal to block containers.
	OutsideNone Outside = iota
	OutsideBlock
	OutsideInline
)

// Inside is the kind of content a box holds.
type Inside uint8

const (
	// InsideBlockContainer : only block-level boxes or only line boxes
	InsideBlockContainer Inside = iota
	// InsideInline : inline-level boxes
	InsideInline
	// InsideReplaced : content rendered externally, no children
	InsideReplaced
	// InsideText : literal text, no children
	InsideText
)

var boxTypes = [...]struct {
	name      string
	outside   Outside
	inside    Inside
	anonymous bool
}{
	invalidType:     {name: "<invalid box>"},
	BlockT:          {"BlockBox", OutsideBlock, InsideBlockContainer, false},
	AnonymousBlockT: {"AnonymousBlockBox", OutsideBlock, InsideBlockContainer, true},
	LineT:           {"LineBox", OutsideNone, InsideInline, true},
	InlineT:         {"InlineBox", OutsideInline, InsideInline, false},
	InlineBlockT:    {"InlineBlockBox", OutsideInline, InsideBlockContainer, false},
	TextT:           {"TextBox", OutsideInline, InsideText, true},
	BlockReplacedT:  {"BlockReplacedBox", OutsideBlock, InsideReplaced, false},
	InlineReplacedT: {"InlineReplacedBox", OutsideInline, InsideReplaced, false},
}

func (t BoxType) String() string   { return boxTypes[t].name }
func (t BoxType) Outside() Outside { return boxTypes[t].outside }
func (t BoxType) Inside() Inside   { return boxTypes[t].inside }

// IsBlockLevel returns true for boxes participating in a block formatting context.
func (t BoxType) IsBlockLevel() bool { return t.Outside() == OutsideBlock }

// IsInlineLevel returns true for boxes participating in an inline formatting context.
func (t BoxType) IsInlineLevel() bool { return t.Outside() == OutsideInline }

// IsBlockContainer returns true for boxes containing either only block-level
// boxes or only line boxes.
func (t BoxType) IsBlockContainer() bool { return t.Inside() == InsideBlockContainer }

// IsParent returns true if the box may have children.
func (t BoxType) IsParent() bool {
	in := t.Inside()
	return in == InsideBlockContainer || in == InsideInline
}

// BoxID is a handle to a box stored in a [Tree].
// The value of an ID is one plus the number of boxes allocated
// before it : the zero value is not a valid box.
type BoxID uint32

// NoBox is the nil value for box handles.
const NoBox BoxID = 0

// Replacement is the opaque content of a replaced box.
type Replacement struct {
	URL string // resolved URL of the content
	Alt string // alternative text
}

// Box is a node of the box tree.
type Box struct {
	Type BoxType

	// Element is the HTML element generating the box, never nil.
	// Anonymous boxes use the element of their parent.
	Element *html.Node
	// PseudoType is [tree.AnonymousBox] for anonymous boxes, empty otherwise.
	PseudoType string
	Style      pr.Properties

	// Text is only used by text boxes.
	Text string
	// Replacement is only used by replaced boxes.
	Replacement *Replacement

	// SplitBefore and SplitAfter are set on inline boxes broken
	// around a block-level box : the start (resp. end) edge of the box is
	// then not the one of the element, so that the decorations
	// of this side should not be drawn.
	SplitBefore, SplitAfter bool

	parent   BoxID
	children []BoxID
}

// IsAnonymous returns true for boxes not directly generated by an element.
func (b *Box) IsAnonymous() bool { return b.PseudoType == tree.AnonymousBox }

// Parent returns the parent of the box, or [NoBox] for the root.
func (b *Box) Parent() BoxID { return b.parent }

// Children returns the children of the box, which must not be modified.
func (b *Box) Children() []BoxID { return b.children }

// ElementTag returns the tag of the generating element.
func (b *Box) ElementTag() string { return b.Element.Data }

func (b *Box) String() string {
	if b.Type == TextT {
		return fmt.Sprintf("<%s %s %q>", b.Type, b.ElementTag(), b.Text)
	}
	return fmt.Sprintf("<%s %s>", b.Type, b.ElementTag())
}

// StyleProvider gives access to the computed styles of the elements.
// Used with [tree.AnonymousBox], it must return the style of the
// anonymous boxes generated by the element : no cascaded values,
// only inherited and initial ones.
type StyleProvider interface {
	Get(element *html.Node, pseudoType string) pr.Properties
}

var _ StyleProvider = (*tree.StyleFor)(nil)

const chunkSize = 64

// Tree stores the boxes. Chunks are never reallocated, so that
// pointers returned by [Tree.Box] stay valid when new boxes are added.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	chunks [][]Box
	count  int
	root   BoxID
	styles StyleProvider
}

// NewTree returns an empty tree, using `styles` for the boxes it creates.
func NewTree(styles StyleProvider) *Tree {
	return &Tree{styles: styles}
}

// Root returns the root box, or [NoBox] for an empty tree.
func (t *Tree) Root() BoxID { return t.root }

// SetRoot sets the root of the tree, which must not have a parent.
func (t *Tree) SetRoot(id BoxID) {
	if p := t.Box(id).parent; p != NoBox {
		preconditionf("root box %s has a parent", t.Box(id))
	}
	t.root = id
}

// Len returns the number of boxes allocated, including the
// ones no longer reachable from the root.
func (t *Tree) Len() int { return t.count }

// Box dereferences the given handle. It panics for [NoBox]
// or IDs not allocated by this tree.
func (t *Tree) Box(id BoxID) *Box {
	if id == NoBox || int(id) > t.count {
		preconditionf("invalid box ID %d", id)
	}
	index := int(id) - 1
	return &t.chunks[index/chunkSize][index%chunkSize]
}

func (t *Tree) alloc(box Box) BoxID {
	if t.count%chunkSize == 0 {
		t.chunks = append(t.chunks, make([]Box, 0, chunkSize))
	}
	last := &t.chunks[len(t.chunks)-1]
	*last = append(*last, box)
	t.count++
	return BoxID(t.count)
}

// newBox creates a box with the style of `element`, or the anonymous
// style derived from it for anonymous box types.
func (t *Tree) newBox(type_ BoxType, element *html.Node, anonymous bool) BoxID {
	if element == nil {
		preconditionf("no element for new %s", type_)
	}
	box := Box{Type: type_, Element: element}
	if anonymous {
		box.PseudoType = tree.AnonymousBox
	}
	style := t.styles.Get(element, box.PseudoType)
	if style == nil {
		preconditionf("no style for element <%s>", element.Data)
	}
	// Copying might not be needed, but let’s be careful with mutable
	// objects.
	box.Style = style.Copy()
	return t.alloc(box)
}

// NewBox creates a non anonymous box generated by `element`.
func (t *Tree) NewBox(type_ BoxType, element *html.Node) BoxID {
	return t.newBox(type_, element, boxTypes[type_].anonymous)
}

// NewAnonymousBox creates a box for `element` with an anonymous style.
func (t *Tree) NewAnonymousBox(type_ BoxType, element *html.Node) BoxID {
	return t.newBox(type_, element, true)
}

// NewTextBox creates an anonymous text box.
func (t *Tree) NewTextBox(element *html.Node, text string) BoxID {
	if len(text) == 0 {
		preconditionf("NewTextBox called with empty text")
	}
	id := t.newBox(TextT, element, true)
	t.Box(id).Text = text
	return id
}

// Parent returns the parent of `id`, or [NoBox] for the root.
func (t *Tree) Parent(id BoxID) BoxID { return t.Box(id).parent }

// Children returns the children of `id`, which must not be modified.
func (t *Tree) Children(id BoxID) []BoxID { return t.Box(id).children }

// AddChild adds `child` to the children of `parent` and set `parent` as the
// child’s parent. The child is inserted at `index`, or appended if `index` is
// negative.
func (t *Tree) AddChild(parent, child BoxID, index int) {
	p := t.Box(parent)
	if !p.Type.IsParent() {
		preconditionf("can't add a child to %s", p)
	}
	t.Box(child).parent = parent
	if index < 0 || index >= len(p.children) {
		p.children = append(p.children, child)
		return
	}
	p.children = append(p.children, NoBox)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
}

// RemoveChild removes the child at `index` from the children of `parent`.
// The parent link of the removed box is reset.
func (t *Tree) RemoveChild(parent BoxID, index int) BoxID {
	p := t.Box(parent)
	child := p.children[index]
	p.children = append(p.children[:index:index], p.children[index+1:]...)
	t.Box(child).parent = NoBox
	return child
}

// setChildren replaces the children of `parent`, updating the parent links.
func (t *Tree) setChildren(parent BoxID, children []BoxID) {
	p := t.Box(parent)
	if len(children) != 0 && !p.Type.IsParent() {
		preconditionf("can't add a child to %s", p)
	}
	p.children = children
	for _, child := range children {
		t.Box(child).parent = parent
	}
}

// Index returns the position of the box in its parent's children,
// or -1 for the root.
func (t *Tree) Index(id BoxID) int {
	parent := t.Box(id).parent
	if parent == NoBox {
		return -1
	}
	for i, child := range t.Box(parent).children {
		if child == id {
			return i
		}
	}
	preconditionf("%s not found in its parent children", t.Box(id))
	return -1
}

// DescendantIterator yields a box and its descendants, in
// depth-first pre-order. The tree must not be modified while iterating.
type DescendantIterator struct {
	tree  *Tree
	stack []BoxID
}

// Descendants returns an iterator over `id`, its children and descendants.
func (t *Tree) Descendants(id BoxID) *DescendantIterator {
	return &DescendantIterator{tree: t, stack: []BoxID{id}}
}

// Next returns the next box, or false when the iteration is over.
func (it *DescendantIterator) Next() (BoxID, bool) {
	if len(it.stack) == 0 {
		return NoBox, false
	}
	next := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	children := it.tree.Box(next).children
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, children[i])
	}
	return next, true
}

// Descendants returns a flat list of the box, its children and descendants.
func Descendants(t *Tree, id BoxID) []BoxID {
	var out []BoxID
	for it := t.Descendants(id); ; {
		box, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, box)
	}
}

// AncestorIterator yields the strict ancestors of a box, nearest first.
type AncestorIterator struct {
	tree    *Tree
	current BoxID
}

// Ancestors returns an iterator over the parent of `id`, its parent, and so on
// up to the root.
func (t *Tree) Ancestors(id BoxID) *AncestorIterator {
	return &AncestorIterator{tree: t, current: id}
}

// Next returns the next ancestor, or false after the root.
func (it *AncestorIterator) Next() (BoxID, bool) {
	parent := it.tree.Box(it.current).parent
	if parent == NoBox {
		return NoBox, false
	}
	it.current = parent
	return parent, true
}
