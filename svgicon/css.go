package svgicon

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// declaration is one property: value pair of a style rule
type declaration struct {
	property, value string
}

// parseClassRules collects the rulesets of a <style> element,
// indexed by selector. Only the selectors made of a class
// (like .name) are used when styling the elements.
func parseClassRules(sheet string, rules map[string][]declaration) {
	parser := css.NewParser(parse.NewInputString(sheet), false)
	var (
		selectors []string
		decls     []declaration
	)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.QualifiedRuleGrammar, css.BeginRulesetGrammar:
			var selector strings.Builder
			for _, v := range parser.Values() {
				switch v.TokenType {
				case css.DelimToken, css.IdentToken, css.HashToken:
					selector.Write(v.Data)
				case css.WhitespaceToken:
					selector.WriteByte(' ')
				}
			}
			if s := strings.TrimSpace(selector.String()); s != "" {
				selectors = append(selectors, s)
			}
		case css.DeclarationGrammar:
			var value strings.Builder
			for _, v := range parser.Values() {
				value.Write(v.Data)
			}
			decls = append(decls, declaration{
				property: strings.ToLower(string(data)),
				value:    strings.TrimSpace(value.String()),
			})
		case css.EndRulesetGrammar:
			for _, sel := range selectors {
				rules[sel] = append(rules[sel], decls...)
			}
			selectors, decls = nil, nil
		case css.BeginAtRuleGrammar, css.AtRuleGrammar, css.EndAtRuleGrammar:
			// at-rules (like @font-face) never style elements
			selectors, decls = nil, nil
		case css.ErrorGrammar:
			return
		}
	}
}

// classDeclarations returns the declarations matching the
// space separated class list.
func (c *iconCursor) classDeclarations(classList string) []declaration {
	var out []declaration
	for _, class := range strings.Fields(classList) {
		out = append(out, c.classRules["."+class]...)
	}
	return out
}
