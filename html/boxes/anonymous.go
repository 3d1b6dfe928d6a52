package boxes

// InlineInBlock wraps consecutive inline-level boxes of a block container
// into a line box, itself wrapped into an anonymous block box.
// (This line box will be broken into multiple lines later.)
//
// The tree is changed in place, children being processed before their parent.
//
// This is the first case in
// http://www.w3.org/TR/CSS21/visuren.html#anonymous-block-level
//
// Eg.
//
//	BlockBox[
//		TextBox('Some '),
//		InlineBox[TextBox('text')],
//		BlockBox[
//			TextBox('More text'),
//		]
//	]
//
// is turned into
//
//	BlockBox[
//		AnonymousBlockBox[
//			LineBox[
//				TextBox('Some '),
//				InlineBox[TextBox('text')],
//			]
//		]
//		BlockBox[
//			LineBox[
//				TextBox('More text'),
//			]
//		]
//	]
func InlineInBlock(t *Tree, id BoxID) {
	for _, child := range t.Children(id) {
		InlineInBlock(t, child)
	}

	box := t.Box(id)
	if !box.Type.IsBlockContainer() {
		return
	}

	var (
		newChildren  []BoxID
		lineChildren []BoxID // content of the pending line box
	)
	newLine := func() BoxID {
		line := t.NewAnonymousBox(LineT, box.Element)
		t.setChildren(line, lineChildren)
		lineChildren = nil
		return line
	}
	addAnonymousBlock := func() {
		anonymous := t.NewAnonymousBox(AnonymousBlockT, box.Element)
		t.AddChild(anonymous, newLine(), -1)
		newChildren = append(newChildren, anonymous)
	}

	for _, child := range box.children {
		childBox := t.Box(child)
		switch {
		case childBox.Type.IsBlockLevel():
			if len(lineChildren) != 0 {
				// Inlines are consecutive no more: add this line box
				// and create a new one.
				addAnonymousBlock()
			}
			newChildren = append(newChildren, child)
		case childBox.Type == LineT:
			// Merge the line box we just found with the new one we are making
			lineChildren = append(lineChildren, childBox.children...)
			childBox.children = nil
		default:
			lineChildren = append(lineChildren, child)
		}
	}

	if len(lineChildren) != 0 {
		// There were inlines at the end
		if len(newChildren) != 0 {
			addAnonymousBlock()
		} else {
			// Only inline-level children: one line box
			newChildren = append(newChildren, newLine())
		}
	}
	t.setChildren(id, newChildren)
}

// BlockInInline breaks inline boxes containing block-level boxes in two
// boxes on each side of consecutive block-level boxes, each side wrapped
// in an anonymous block-level box.
//
// The tree is changed in place, children being processed before their parent.
// [InlineInBlock] must have been called first.
//
// This is the second case in
// http://www.w3.org/TR/CSS21/visuren.html#anonymous-block-level
//
// Eg.
//
//	BlockBox[
//		LineBox[
//			InlineBox[
//				TextBox('Hello.'),
//			],
//			InlineBox[
//				TextBox('Some '),
//				InlineBox[
//					TextBox('text')
//					BlockBox[LineBox[TextBox('More text')]],
//				],
//				TextBox('End.'),
//			]
//		]
//	]
//
// is turned into
//
//	BlockBox[
//		AnonymousBlockBox[
//			LineBox[
//				InlineBox[
//					TextBox('Hello.'),
//				],
//				InlineBox[
//					TextBox('Some '),
//					InlineBox[TextBox('text')],
//				]
//			]
//		],
//		BlockBox[LineBox[TextBox('More text')]],
//		AnonymousBlockBox[
//			LineBox[
//				InlineBox[
//					InlineBox[],
//					TextBox('End.'),
//				]
//			]
//		],
//	]
//
// The inline boxes on both sides of the split have their [Box.SplitAfter]
// and [Box.SplitBefore] flags set.
func BlockInInline(t *Tree, id BoxID) {
	// children are moved to the clones while being processed
	children := append([]BoxID(nil), t.Children(id)...)
	for _, child := range children {
		BlockInInline(t, child)
	}

	box := t.Box(id)
	if !box.Type.IsBlockLevel() || box.parent == NoBox || t.Box(box.parent).Type != InlineT {
		return
	}
	splitInlineAncestors(t, id)
}

// splitInlineAncestors moves the block-level box `id` out of its
// inline ancestors, up to the nearest block container.
func splitInlineAncestors(t *Tree, id BoxID) {
	// Find all ancestry until a line box.
	var (
		inlineParents []BoxID // nearest first
		line          BoxID
	)
	for it := t.Ancestors(id); line == NoBox; {
		parent, ok := it.Next()
		if !ok {
			preconditionf("%s is not in a line box", t.Box(id))
		}
		switch parentBox := t.Box(parent); parentBox.Type {
		case InlineT:
			inlineParents = append(inlineParents, parent)
		case LineT:
			line = parent
		default:
			preconditionf("unexpected %s between %s and its line box", parentBox, t.Box(id))
		}
	}
	element := t.Box(line).Element

	lineParent := t.Parent(line)
	if lineParent == NoBox {
		preconditionf("line box %s has no parent", t.Box(line))
	}
	// Add an anonymous block level box before the block box
	before := lineParent
	if t.Box(lineParent).Type != AnonymousBlockT {
		before = t.NewAnonymousBox(AnonymousBlockT, element)
		index := t.Index(line)
		t.RemoveChild(lineParent, index)
		t.AddChild(lineParent, before, index)
		t.AddChild(before, line, -1)
	}

	// Add an anonymous block level box after the block box
	container := t.Parent(before)
	after := t.NewAnonymousBox(AnonymousBlockT, element)
	t.AddChild(container, after, t.Index(before)+1)

	// Recreate anonymous inline boxes clones from the split inline boxes
	lineClone := t.NewAnonymousBox(LineT, element)
	t.AddChild(after, lineClone, -1)
	clones := make([]BoxID, len(inlineParents)) // same order as inlineParents
	cloneParent := lineClone
	for i := len(inlineParents) - 1; i >= 0; i-- {
		clone := t.NewAnonymousBox(InlineT, t.Box(inlineParents[i]).Element)
		original, cloneBox := t.Box(inlineParents[i]), t.Box(clone)
		cloneBox.SplitBefore, cloneBox.SplitAfter = true, original.SplitAfter
		original.SplitAfter = true
		t.AddChild(cloneParent, clone, -1)
		clones[i] = clone
		cloneParent = clone
	}

	// Move what follows the split point to the clones, level by level
	splitter := id
	for i, parent := range inlineParents {
		moveFollowingSiblings(t, parent, t.Index(splitter), clones[i])
		splitter = parent
	}
	moveFollowingSiblings(t, line, t.Index(splitter), lineClone)

	// Put the block element after the "before" box
	t.RemoveChild(t.Parent(id), t.Index(id))
	t.AddChild(container, id, t.Index(before)+1)
}

// moveFollowingSiblings appends the children of `parent` following
// `index` to the children of `target`.
func moveFollowingSiblings(t *Tree, parent BoxID, index int, target BoxID) {
	p, end := t.Box(parent), index+1
	following := p.children[end:]
	p.children = p.children[:end:end]
	for _, child := range following {
		t.AddChild(target, child, -1)
	}
}
