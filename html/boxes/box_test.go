package boxes

import (
	"testing"

	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/html/tree"
	tu "github.com/benoitkugler/boxtree/utils/testutils"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newTestTree(t *testing.T) (*Tree, *html.Node) {
	document, style := parseBase(t, "<p>abc", baseUrl)
	return NewTree(style), document.Root.AsHtmlNode()
}

func requirePrecondition(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		err, _ := recover().(error)
		require.ErrorIs(t, err, ErrPrecondition)
	}()
	f()
}

func TestBoxTypes(t *testing.T) {
	for _, test := range []struct {
		type_          BoxType
		blockLevel     bool
		inlineLevel    bool
		blockContainer bool
		parent         bool
		anonymous      bool
	}{
		{BlockT, true, false, true, true, false},
		{AnonymousBlockT, true, false, true, true, true},
		{LineT, false, false, false, true, true},
		{InlineT, false, true, false, true, false},
		{InlineBlockT, false, true, true, true, false},
		{TextT, false, true, false, false, true},
		{BlockReplacedT, true, false, false, false, false},
		{InlineReplacedT, false, true, false, false, false},
	} {
		tu.AssertEqual(t, test.type_.IsBlockLevel(), test.blockLevel)
		tu.AssertEqual(t, test.type_.IsInlineLevel(), test.inlineLevel)
		tu.AssertEqual(t, test.type_.IsBlockContainer(), test.blockContainer)
		tu.AssertEqual(t, test.type_.IsParent(), test.parent)
		tu.AssertEqual(t, boxTypes[test.type_].anonymous, test.anonymous)
	}
	tu.AssertEqual(t, LineT.String(), "LineBox")
}

func TestAddChild(t *testing.T) {
	tr, root := newTestTree(t)

	block := tr.NewBox(BlockT, root)
	tr.SetRoot(block)
	a := tr.NewTextBox(root, "a")
	b := tr.NewTextBox(root, "b")
	c := tr.NewTextBox(root, "c")
	tr.AddChild(block, c, -1)
	tr.AddChild(block, a, 0)
	tr.AddChild(block, b, 1)

	tu.AssertEqual(t, tr.Children(block), []BoxID{a, b, c})
	for i, child := range tr.Children(block) {
		tu.AssertEqual(t, tr.Parent(child), block)
		tu.AssertEqual(t, tr.Index(child), i)
	}
	tu.AssertEqual(t, tr.Index(block), -1)
	tu.AssertEqual(t, tr.Parent(block), NoBox)

	removed := tr.RemoveChild(block, 1)
	tu.AssertEqual(t, removed, b)
	tu.AssertEqual(t, tr.Children(block), []BoxID{a, c})
	tu.AssertEqual(t, tr.Parent(b), NoBox)

	// text boxes are leaves
	requirePrecondition(t, func() { tr.AddChild(a, b, -1) })
	// empty text
	requirePrecondition(t, func() { tr.NewTextBox(root, "") })
	// invalid handles
	requirePrecondition(t, func() { tr.Box(NoBox) })
	requirePrecondition(t, func() { tr.Box(BoxID(tr.Len() + 1)) })
	// only the root has no parent
	requirePrecondition(t, func() { tr.SetRoot(a) })
}

func TestAnonymousStyle(t *testing.T) {
	document, style := parseBase(t, `<p style="color: red; margin: 4px">abc`, baseUrl)
	p := document.Root.NodeChildren()[1].NodeChildren()[0].AsHtmlNode()
	tr := NewTree(style)

	box := tr.Box(tr.NewBox(BlockT, p))
	tu.AssertEqual(t, box.IsAnonymous(), false)
	tu.AssertEqual(t, box.Style.GetMarginTop(), "4px")

	anonymous := tr.Box(tr.NewAnonymousBox(AnonymousBlockT, p))
	tu.AssertEqual(t, anonymous.IsAnonymous(), true)
	tu.AssertEqual(t, anonymous.PseudoType, tree.AnonymousBox)
	tu.AssertEqual(t, anonymous.Style.GetMarginTop(), "0px")
	tu.AssertEqual(t, anonymous.Style.GetColor(), "red")

	// boxes own their style
	box.Style.SetDisplay("inline")
	tu.AssertEqual(t, style.Get(p, "").GetDisplay(), pr.Display("block"))
}

func TestStablePointers(t *testing.T) {
	tr, root := newTestTree(t)

	first := tr.NewBox(BlockT, root)
	ptr := tr.Box(first)
	for i := 0; i < 3*chunkSize; i++ {
		tr.AddChild(first, tr.NewTextBox(root, "x"), -1)
	}
	if ptr != tr.Box(first) {
		t.Fatal("box moved in memory")
	}
	tu.AssertEqual(t, tr.Len(), 3*chunkSize+1)
	tu.AssertEqual(t, len(tr.Children(first)), 3*chunkSize)
}

func TestDescendantsAndAncestors(t *testing.T) {
	tr, root := newTestTree(t)

	// block[inline[text1, inline2[text2]], text3]
	block := tr.NewBox(BlockT, root)
	inline := tr.NewBox(InlineT, root)
	text1 := tr.NewTextBox(root, "1")
	inline2 := tr.NewBox(InlineT, root)
	text2 := tr.NewTextBox(root, "2")
	text3 := tr.NewTextBox(root, "3")
	tr.AddChild(block, inline, -1)
	tr.AddChild(block, text3, -1)
	tr.AddChild(inline, text1, -1)
	tr.AddChild(inline, inline2, -1)
	tr.AddChild(inline2, text2, -1)

	tu.AssertEqual(t, Descendants(tr, block), []BoxID{block, inline, text1, inline2, text2, text3})
	tu.AssertEqual(t, Descendants(tr, inline2), []BoxID{inline2, text2})

	// iterators are restartable
	it1, it2 := tr.Descendants(block), tr.Descendants(block)
	for range Descendants(tr, block) {
		id1, ok1 := it1.Next()
		id2, ok2 := it2.Next()
		require.True(t, ok1 && ok2)
		require.Equal(t, id1, id2)
	}
	_, ok := it1.Next()
	require.False(t, ok)

	var ancestors []BoxID
	for it := tr.Ancestors(text2); ; {
		id, ok := it.Next()
		if !ok {
			break
		}
		ancestors = append(ancestors, id)
	}
	tu.AssertEqual(t, ancestors, []BoxID{inline2, inline, block})

	_, ok = tr.Ancestors(block).Next()
	require.False(t, ok)
}

func TestErrors(t *testing.T) {
	err := &UnsupportedDisplayError{Display: "flex", Element: "div"}
	require.ErrorIs(t, err, ErrUnsupportedDisplay)
	require.NotErrorIs(t, err, ErrPrecondition)
	require.Equal(t, "unsupported display: flex (on <div>)", err.Error())
}
