package boxes

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// ProcessTextTransform applies the 'text-transform' property of the text
// boxes of the tree rooted at `root`. Case mappings follow the language
// of the box, as given by the nearest 'lang' attribute.
func ProcessTextTransform(t *Tree, root BoxID) {
	for it := t.Descendants(root); ; {
		id, ok := it.Next()
		if !ok {
			return
		}
		box := t.Box(id)
		if box.Type != TextT || box.Text == "" {
			continue
		}
		box.Text = textTransform(box.Text, box.Style.GetTextTransform(), box.Style.GetLang())
	}
}

func textTransform(text, transform, lang string) string {
	switch transform {
	case "uppercase":
		return cases.Upper(parseLang(lang)).String(text)
	case "lowercase":
		return cases.Lower(parseLang(lang)).String(text)
	case "capitalize":
		return capitalize(text)
	case "full-width":
		return width.Widen.String(text)
	default: // none
		return text
	}
}

// parseLang returns [language.Und] for empty or invalid tags.
func parseLang(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// capitalize puts the first letter (or digit) of every word in titlecase,
// words being separated by spaces.
func capitalize(text string) string {
	out := []rune(text)
	wordStart := true
	for i, r := range out {
		switch {
		case unicode.IsSpace(r):
			wordStart = true
		case wordStart && (unicode.IsLetter(r) || unicode.IsNumber(r)):
			out[i] = unicode.ToTitle(r)
			wordStart = false
		}
	}
	return string(out)
}
