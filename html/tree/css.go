package tree

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/benoitkugler/boxtree/css/parser"
	pr "github.com/benoitkugler/boxtree/css/properties"
	"github.com/benoitkugler/boxtree/logger"
	"github.com/benoitkugler/boxtree/utils"
)

var (
	// Html5UAStylesheet is the user agent style sheet
	Html5UAStylesheet CSS

	//go:embed html5_ua.css
	html5UACSS string
)

func init() {
	var err error
	Html5UAStylesheet, err = NewCSS(utils.InputString(html5UACSS))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded stylesheet: %s", err))
	}
}

// validDeclaration is a declaration whose property is known
// and whose value is valid.
type validDeclaration struct {
	name      pr.KnownProp
	value     string
	important bool
}

type matcher struct {
	selector    cascadia.Sel
	specificity cascadia.Specificity
	// position in the stylesheet, used to break ties
	order        int
	declarations []validDeclaration
}

// CSS is a parsed stylesheet, ready to be matched
// against an HTML tree.
type CSS struct {
	matchers []matcher
}

// NewCSS parses a stylesheet. Invalid rules and declarations are
// ignored, with a warning.
func NewCSS(input utils.ContentInput) (CSS, error) {
	content, _, err := utils.ReadContent(input)
	if err != nil {
		return CSS{}, err
	}
	rules, errs := parser.ParseStylesheet(content)
	for _, err := range errs {
		logger.WarningLogger.Warnf("Ignored CSS: %s", err)
	}

	var out CSS
	for _, rule := range rules {
		declarations := preprocessDeclarations(rule.Content)
		if len(declarations) == 0 {
			continue
		}
		group, err := cascadia.ParseGroup(rule.Prelude)
		if err != nil {
			logger.WarningLogger.Warnf("Unsupported selector %q: %s", rule.Prelude, err)
			continue
		}
		for _, sel := range group {
			out.matchers = append(out.matchers, matcher{
				selector:     sel,
				specificity:  sel.Specificity(),
				order:        len(out.matchers),
				declarations: declarations,
			})
		}
	}
	return out, nil
}

// expanders for the supported shorthand properties : they split
// the value and return the longhand declarations, or an error
var expanders = map[string]func(name string, tokens []string) ([][2]string, error){
	"margin":       expandFourSides("margin-%s"),
	"padding":      expandFourSides("padding-%s"),
	"border-width": expandFourSides("border-%s-width"),
	"border-style": expandFourSides("border-%s-style"),
	"text-decoration": func(_ string, tokens []string) ([][2]string, error) {
		return [][2]string{{"text-decoration-line", strings.Join(tokens, " ")}}, nil
	},
}

// Expand properties setting a token for the four sides of a box.
func expandFourSides(format string) func(name string, tokens []string) ([][2]string, error) {
	return func(name string, tokens []string) ([][2]string, error) {
		// Define expanded values for the four sides
		var top, right, bottom, left string
		switch len(tokens) {
		case 1:
			top, right, bottom, left = tokens[0], tokens[0], tokens[0], tokens[0]
		case 2:
			top, right, bottom, left = tokens[0], tokens[1], tokens[0], tokens[1]
		case 3:
			top, right, bottom, left = tokens[0], tokens[1], tokens[2], tokens[1]
		case 4:
			top, right, bottom, left = tokens[0], tokens[1], tokens[2], tokens[3]
		default:
			return nil, fmt.Errorf("expected 1 to 4 token components for %s, got %d", name, len(tokens))
		}
		return [][2]string{
			{fmt.Sprintf(format, "top"), top},
			{fmt.Sprintf(format, "right"), right},
			{fmt.Sprintf(format, "bottom"), bottom},
			{fmt.Sprintf(format, "left"), left},
		}, nil
	}
}

// preprocessDeclarations expands shorthands and validates
// the declarations, logging the ignored ones.
func preprocessDeclarations(declarations []parser.Declaration) []validDeclaration {
	var out []validDeclaration
	for _, decl := range declarations {
		longhands := [][2]string{{decl.Name, decl.Value}}
		if expander, ok := expanders[decl.Name]; ok {
			var err error
			longhands, err = expander(decl.Name, strings.Fields(decl.Value))
			if err != nil {
				logger.WarningLogger.Warnf("Ignored `%s: %s`, %s.", decl.Name, decl.Value, err)
				continue
			}
		}
		for _, longhand := range longhands {
			name, value := longhand[0], longhand[1]
			prop, ok := pr.PropFromName(name)
			if !ok {
				logger.WarningLogger.Warnf("Ignored `%s: %s`, unknown property.", name, value)
				continue
			}
			value, ok = pr.Validate(prop, value)
			if !ok {
				logger.WarningLogger.Warnf("Ignored `%s: %s`, invalid value.", name, longhand[1])
				continue
			}
			out = append(out, validDeclaration{name: prop, value: value, important: decl.Important})
		}
	}
	return out
}
