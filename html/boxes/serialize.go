package boxes

// SerBox is a simplified view of a box tree, used to
// compare trees in tests and to export them.
type SerBox struct {
	Tag     string  `json:"tag" yaml:"tag"`
	Type    BoxType `json:"type" yaml:"type"`
	Content BC      `json:"content" yaml:"content"`
}

// BC is the content of a serialized box : either children or text.
type BC struct {
	C    []SerBox `json:"children,omitempty" yaml:"children,omitempty"`
	Text string   `json:"text,omitempty" yaml:"text,omitempty"`
}

// MarshalText returns the name of the type.
func (t BoxType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Serialize transforms a box list into a structure easier to compare,
// recursively. Replaced boxes content is shown as "<replaced>".
// The returned slice is never nil.
func Serialize(t *Tree, boxList []BoxID) []SerBox {
	out := make([]SerBox, 0, len(boxList))
	for _, id := range boxList {
		box := t.Box(id)
		var content BC
		switch box.Type.Inside() {
		case InsideText:
			content.Text = box.Text
		case InsideReplaced:
			content.Text = "<replaced>"
		default:
			content.C = Serialize(t, box.children)
		}
		out = append(out, SerBox{Tag: box.ElementTag(), Type: box.Type, Content: content})
	}
	return out
}
