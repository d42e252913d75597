// Package stylesheet is the default style parser for svgimage:
// it extracts the @font-face rules of a style sheet.
package stylesheet

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ResultKey indexes the values found in a style sheet.
type ResultKey string

// KeyFontFaces holds a []map[string]any, one map per @font-face rule,
// from the (lower case) property name to its value.
const KeyFontFaces ResultKey = "fontFaces"

// Font face properties
const (
	PropFontFamily = "font-family"
	PropSource     = "src"
)

// Result is what a Parser finds in a style sheet.
type Result map[ResultKey]any

// Parser analyzes the raw text of a <style> element.
type Parser func(text string) Result

// Parse returns the @font-face rules of the style sheet.
// Other rules are ignored.
func Parse(text string) Result {
	parser := css.NewParser(parse.NewInputString(text), false)
	var (
		faces  []map[string]any
		inFace bool
		face   map[string]any
		depth  int // nesting of at-rules and rulesets
	)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if len(faces) == 0 {
				return Result{}
			}
			return Result{KeyFontFaces: faces}
		case css.BeginAtRuleGrammar:
			if depth == 0 && strings.EqualFold(string(data), "@font-face") {
				inFace = true
				face = make(map[string]any)
			}
			depth++
		case css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
			if inFace && depth == 0 {
				faces = append(faces, face)
				inFace, face = false, nil
			}
		case css.DeclarationGrammar:
			if inFace && depth == 1 {
				face[strings.ToLower(string(data))] = declarationValue(parser.Values())
			}
		}
	}
}

// declarationValue concatenates the tokens of a value.
// A value made of a single string is unquoted.
func declarationValue(values []css.Token) string {
	var tokens []css.Token
	for _, v := range values {
		if v.TokenType != css.WhitespaceToken || len(tokens) > 0 {
			tokens = append(tokens, v)
		}
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 1 && tokens[0].TokenType == css.StringToken {
		return unquote(string(tokens[0].Data))
	}
	var b strings.Builder
	for _, v := range tokens {
		b.Write(v.Data)
	}
	return b.String()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
