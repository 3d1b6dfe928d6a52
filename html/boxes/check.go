package boxes

import "fmt"

// CheckInvariants checks that the rules regarding boxes are met
// for the normalized tree rooted at `root` :
//   - parent and children links agree, and only `root` has no parent
//   - text and replaced boxes have no children
//   - a block container contains either only block-level boxes or
//     only line boxes
//   - line boxes and inline boxes only contain inline-level boxes
//   - anonymous box types are anonymous
func CheckInvariants(t *Tree, root BoxID) error {
	if p := t.Parent(root); p != NoBox {
		return fmt.Errorf("root %s has parent %s", t.Box(root), t.Box(p))
	}
	for it := t.Descendants(root); ; {
		id, ok := it.Next()
		if !ok {
			return nil
		}
		if err := checkBox(t, id); err != nil {
			return err
		}
	}
}

func checkBox(t *Tree, id BoxID) error {
	box := t.Box(id)
	if boxTypes[box.Type].anonymous && !box.IsAnonymous() {
		return fmt.Errorf("%s should be anonymous", box)
	}
	if !box.Type.IsParent() {
		if len(box.children) != 0 {
			return fmt.Errorf("%s can't have children", box)
		}
		return nil
	}

	var hasBlockLevel, hasLine, hasInlineLevel bool
	for _, child := range box.children {
		childBox := t.Box(child)
		if childBox.parent != id {
			return fmt.Errorf("%s has an inconsistent parent link", childBox)
		}
		switch {
		case childBox.Type.IsBlockLevel():
			hasBlockLevel = true
		case childBox.Type == LineT:
			hasLine = true
		default:
			hasInlineLevel = true
		}
	}

	if box.Type.IsBlockContainer() {
		if hasInlineLevel || (hasBlockLevel && hasLine) {
			return fmt.Errorf("block container %s mixes block-level boxes and inline content", box)
		}
	} else if hasBlockLevel || hasLine { // line and inline boxes
		return fmt.Errorf("%s can only contain inline-level boxes", box)
	}
	return nil
}
