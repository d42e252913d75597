package svgimage

import (
	"log/slog"

	"github.com/benoitkugler/svgimage/fontface"
	"github.com/benoitkugler/svgimage/stylesheet"
)

// fontFaceCollector registers the font faces found by the
// style parser in each style sheet of a document.
type fontFaceCollector struct {
	parse    stylesheet.Parser
	registry *fontface.Registry
	log      *slog.Logger
}

// VisitStyleSheet implements svgicon.StyleSheetVisitor
func (c *fontFaceCollector) VisitStyleSheet(text string) {
	for _, decl := range fontFaceDeclarations(c.parse(text)) {
		if err := c.registry.Register(decl); err != nil {
			c.log.Debug("skipping font face", "family", decl.Family, "error", err)
		}
	}
}

// fontFaceDeclarations returns the well formed entries of the
// stylesheet.KeyFontFaces value. Entries without family or
// source are skipped.
func fontFaceDeclarations(result stylesheet.Result) []fontface.Declaration {
	var out []fontface.Declaration
	add := func(family, src any) {
		f, okF := family.(string)
		s, okS := src.(string)
		if okF && okS {
			out = append(out, fontface.Declaration{Family: f, Source: s})
		}
	}
	switch entries := result[stylesheet.KeyFontFaces].(type) {
	case []map[string]any:
		for _, e := range entries {
			add(e[stylesheet.PropFontFamily], e[stylesheet.PropSource])
		}
	case []map[string]string:
		for _, e := range entries {
			family, okF := e[stylesheet.PropFontFamily]
			src, okS := e[stylesheet.PropSource]
			if okF && okS {
				add(family, src)
			}
		}
	case []any:
		for _, e := range entries {
			switch e := e.(type) {
			case map[string]any:
				add(e[stylesheet.PropFontFamily], e[stylesheet.PropSource])
			case map[string]string:
				family, okF := e[stylesheet.PropFontFamily]
				src, okS := e[stylesheet.PropSource]
				if okF && okS {
					add(family, src)
				}
			}
		}
	}
	return out
}
