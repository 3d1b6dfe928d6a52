// Package parser reads CSS stylesheets and declaration lists,
// on top of the tdewolff CSS tokenizer.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// give up on inputs producing too many syntax errors
const maxErrors = 100

// Declaration is a property/value pair, as found in a rule
// or in a `style` attribute.
type Declaration struct {
	Name      string // lower case
	Value     string // serialized value, without !important
	Important bool
}

// QualifiedRule is a style rule : a selector with its declarations.
type QualifiedRule struct {
	Prelude string // the selector, as written
	Content []Declaration
}

// ParseStylesheet returns the style rules in [input], in source order.
// At-rules and syntax errors are skipped and reported in the
// returned list of errors.
func ParseStylesheet(input []byte) ([]QualifiedRule, []error) {
	return parseCSS(input, false)
}

// ParseDeclarationListString parses the content of a `style` attribute.
func ParseDeclarationListString(input string) ([]Declaration, []error) {
	rules, errs := parseCSS([]byte(input), true)
	if len(rules) == 0 {
		return nil, errs
	}
	return rules[0].Content, errs
}

func parseCSS(input []byte, isInline bool) ([]QualifiedRule, []error) {
	p := css.NewParser(parse.NewInput(bytes.NewReader(input)), isInline)

	var (
		rules   []QualifiedRule
		errs    []error
		current *QualifiedRule
		atDepth int // nesting inside ignored at-rules
	)
	if isInline {
		rules = append(rules, QualifiedRule{})
		current = &rules[0]
	}
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			err := p.Err()
			if errors.Is(err, io.EOF) {
				return rules, errs
			}
			errs = append(errs, err)
			if len(errs) > maxErrors {
				return rules, errs
			}
		case css.AtRuleGrammar:
			if atDepth == 0 {
				errs = append(errs, fmt.Errorf("unsupported at-rule %s", data))
			}
		case css.BeginAtRuleGrammar:
			if atDepth == 0 {
				errs = append(errs, fmt.Errorf("unsupported at-rule %s", data))
			}
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.BeginRulesetGrammar:
			if atDepth > 0 {
				continue
			}
			prelude := string(data) + serialize(p.Values())
			rules = append(rules, QualifiedRule{Prelude: strings.TrimSpace(prelude)})
			current = &rules[len(rules)-1]
		case css.EndRulesetGrammar:
			if !isInline {
				current = nil
			}
		case css.DeclarationGrammar:
			if atDepth > 0 || current == nil {
				continue
			}
			current.Content = append(current.Content, newDeclaration(string(data), p.Values()))
		}
	}
}

func newDeclaration(name string, values []css.Token) Declaration {
	decl := Declaration{Name: strings.ToLower(strings.TrimSpace(name))}
	values = trimWhitespace(values)
	// look for a trailing "! important"
	if L := len(values); L >= 2 && values[L-1].TokenType == css.IdentToken &&
		strings.EqualFold(string(values[L-1].Data), "important") {
		rest := trimWhitespace(values[:L-1])
		if L := len(rest); L >= 1 && rest[L-1].TokenType == css.DelimToken && string(rest[L-1].Data) == "!" {
			decl.Important = true
			values = trimWhitespace(rest[:L-1])
		}
	}
	decl.Value = serialize(values)
	return decl
}

func trimWhitespace(values []css.Token) []css.Token {
	for len(values) > 0 && values[0].TokenType == css.WhitespaceToken {
		values = values[1:]
	}
	for len(values) > 0 && values[len(values)-1].TokenType == css.WhitespaceToken {
		values = values[:len(values)-1]
	}
	return values
}

func serialize(values []css.Token) string {
	var b strings.Builder
	for _, v := range values {
		if v.TokenType == css.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.Write(v.Data)
	}
	return b.String()
}
