package boxes

import (
	"regexp"
	"strings"

	pr "github.com/benoitkugler/boxtree/css/properties"
)

var (
	reLineFeeds = regexp.MustCompile(`[\t\r ]*\n[\t\r ]*`)
	reSpaces    = regexp.MustCompile(` +`)

	// a run of non breaking spaces, with the character following it
	reNbspRun = regexp.MustCompile("\u00a0+([^\u00a0]|$)")
)

// ProcessWhitespace applies the first part of "The 'white-space' processing model",
// to all the text boxes of the tree rooted at `root`, in document order.
// See http://www.w3.org/TR/CSS21/text.html#white-space-model
//
// Collapsible spaces are tracked across text boxes : a text box starting
// with a space loses it if the previous text box ended with a collapsible
// space. Other boxes, replaced ones included, do not change this state.
func ProcessWhitespace(t *Tree, root BoxID) {
	followingCollapsibleSpace := false
	for it := t.Descendants(root); ; {
		id, ok := it.Next()
		if !ok {
			return
		}
		if box := t.Box(id); box.Type == TextT {
			box.Text, followingCollapsibleSpace = processWhitespaceText(box.Text, box.Style.GetWhiteSpace(), followingCollapsibleSpace)
		}
	}
}

// processWhitespaceText normalizes one text, given the 'white-space' value
// of its box, and whether the previous text ended with a collapsible space.
// It returns the new text and whether it ends with a collapsible space.
func processWhitespaceText(text string, handling pr.WhiteSpace, followingCollapsibleSpace bool) (string, bool) {
	text = reLineFeeds.ReplaceAllString(text, "\n")

	switch handling {
	case pr.WsPre, pr.WsPreWrap:
		// U+00A0 is the non-breaking space
		text = strings.ReplaceAll(text, " ", "\u00a0")
		if handling == pr.WsPreWrap {
			// "a line break opportunity at the end of the sequence"
			// U+200B is the zero-width space, marks a line break opportunity.
			text = reNbspRun.ReplaceAllStringFunc(text, func(run string) string {
				// keep the marker already inserted by a previous pass
				if strings.HasSuffix(run, "\u200b") {
					return run
				}
				last := strings.LastIndex(run, "\u00a0") + len("\u00a0")
				return run[:last] + "\u200b" + run[last:]
			})
		}
	case pr.WsNormal, pr.WsNowrap:
		// this should be language-specific
		// CSS3: http://www.w3.org/TR/css3-text/#line-break-transform
		text = strings.ReplaceAll(text, "\n", " ")
	}

	if !handling.IsCollapsible() {
		return text, false
	}

	text = strings.ReplaceAll(text, "\t", " ")
	text = reSpaces.ReplaceAllString(text, " ")
	if followingCollapsibleSpace && strings.HasPrefix(text, " ") {
		text = text[1:]
	}
	// an emptied text ends the run of collapsible spaces
	return text, strings.HasSuffix(text, " ")
}
