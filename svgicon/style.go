package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

type (
	// iconCursor is used while parsing SVG files
	iconCursor struct {
		pathCursor
		icon                                    *SvgIcon
		styleStack                              []PathStyle
		grad                                    *Gradient
		inTitleText, inDescText, inGrad, inDefs bool
		currentDef                              []definition

		opts Options
		log  *slog.Logger

		inStyle    bool
		classRules map[string][]declaration // filled before parsing, see readStyleSheets

		text *textCursor // non nil inside a <text> element
	}

	// definition is used to store what's given in a def tag
	definition struct {
		ID, Tag string
		Attrs   []xml.Attr
	}
)

// DefaultFontSize is the font size used when none is specified.
const DefaultFontSize = 16.

// DefaultStyle sets the default PathStyle to fill black, winding rule,
// full opacity, no stroke, ButtCap line end and Bevel line connect.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         2.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4.),
		LineJoin:     Bevel,
		TrailLineCap: ButtCap,
	},
	FillerColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	Font:        FontStyle{Size: DefaultFontSize, Anchor: AnchorStart},
	transform:   Identity,
}

func (c *iconCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform composes the transform list v with m1
func (c *iconCursor) parseTransform(m1 Matrix2D, v string) (Matrix2D, error) {
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		t = strings.TrimLeft(t, ", ")
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func parseJoin(v string) (JoinMode, bool) {
	switch v {
	case "miter":
		return Miter, true
	case "miter-clip":
		return MiterClip, true
	case "arc-clip":
		return ArcClip, true
	case "round":
		return Round, true
	case "arc":
		return Arc, true
	case "bevel":
		return Bevel, true
	}
	return 0, false
}

func parseCap(v string) (CapMode, bool) {
	switch v {
	case "butt":
		return ButtCap, true
	case "round":
		return RoundCap, true
	case "square":
		return SquareCap, true
	case "cubic":
		return CubicCap, true
	case "quadratic":
		return QuadraticCap, true
	}
	return NilCap, false
}

func (c *iconCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	switch k {
	case "fill":
		gradient, ok := c.readGradURL(v, curStyle.FillerColor)
		if ok {
			curStyle.FillerColor = gradient
			break
		}
		optCol, err := parseSVGColor(v)
		curStyle.FillerColor = optCol.asPattern()
		return err
	case "stroke":
		gradient, ok := c.readGradURL(v, curStyle.LinerColor)
		if ok {
			curStyle.LinerColor = gradient
			break
		}
		col, errc := parseSVGColor(v)
		if errc != nil {
			return errc
		}
		curStyle.LinerColor = col.asPattern()
	case "fill-rule":
		curStyle.UseNonZeroWinding = v != "evenodd"
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Join.LineGap = FlatGap
		case "round":
			curStyle.Join.LineGap = RoundGap
		case "cubic":
			curStyle.Join.LineGap = CubicGap
		case "quadratic":
			curStyle.Join.LineGap = QuadraticGap
		}
	case "stroke-leadlinecap":
		if cp, ok := parseCap(v); ok {
			curStyle.Join.LeadLineCap = cp
		}
	case "stroke-linecap":
		if cp, ok := parseCap(v); ok {
			curStyle.Join.TrailLineCap = cp
		}
	case "stroke-linejoin":
		if j, ok := parseJoin(v); ok {
			curStyle.Join.LineJoin = j
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.Join.MiterLimit = fToFixed(mLimit)
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := c.parseUnit(strings.TrimSpace(dstr), diagPercentage)
			if err != nil {
				return err
			}
			dList[i] = d
		}
		curStyle.Dash.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(curStyle.transform, v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	case "font-family":
		c.readFontFamily(&curStyle.Font, v)
	case "font-size":
		if size, ok := c.parseFontSize(v, curStyle.Font.Size); ok {
			curStyle.Font.Size = size
		}
	case "text-anchor":
		if a, ok := parseTextAnchor(v); ok {
			curStyle.Font.Anchor = a
		}
	}
	return nil
}

// readFontFamily keeps the first family of the list, and
// asks the resolver for a substitute.
func (c *iconCursor) readFontFamily(font *FontStyle, v string) {
	family := parseFontFamily(v)
	if family == "" {
		return
	}
	font.RequestedFamily = family
	font.Family = family
	if c.opts.FontFamilies != nil {
		if resolved, ok := c.opts.FontFamilies.ResolveFontFamily(family); ok {
			c.log.Debug("font family substituted", "family", family, "resolved", resolved)
			font.Family = resolved
		}
	}
}

// parseFontFamily returns the first family of a font-family list, unquoted
func parseFontFamily(v string) string {
	first, _, _ := strings.Cut(v, ",")
	first = strings.TrimSpace(first)
	if len(first) >= 2 && (first[0] == '\'' || first[0] == '"') && first[len(first)-1] == first[0] {
		first = first[1 : len(first)-1]
	}
	return strings.TrimSpace(first)
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

func (c *iconCursor) parseFontSize(v string, inherited float64) (float64, bool) {
	v = strings.TrimSpace(v)
	if size, ok := fontSizeKeywords[v]; ok {
		return size, true
	}
	if strings.HasSuffix(v, "%") {
		f, err := parseBasicFloat(strings.TrimSuffix(v, "%"))
		return inherited * f / 100, err == nil
	}
	if strings.HasSuffix(v, "em") && !strings.HasSuffix(v, "rem") {
		f, err := parseBasicFloat(strings.TrimSuffix(v, "em"))
		return inherited * f, err == nil
	}
	size, err := parseLength(v)
	if err != nil {
		c.log.Debug("invalid font size", "value", v, "error", err)
		return 0, false
	}
	return size, true
}

// styleDeclarations splits a style attribute into its declarations.
func styleDeclarations(style string) []declaration {
	var out []declaration
	for _, pair := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		out = append(out, declaration{
			property: strings.ToLower(strings.TrimSpace(k)),
			value:    strings.TrimSpace(v),
		})
	}
	return out
}

// pushStyle parses the style of an element, and push it on the style stack.
// Presentation attributes come first, then the class rules
// and finally the content of the style attribute.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	var presentation, classes, inline []declaration
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			inline = append(inline, styleDeclarations(attr.Value)...)
		case "class":
			classes = append(classes, c.classDeclarations(attr.Value)...)
		default:
			presentation = append(presentation, declaration{
				property: strings.ToLower(attr.Name.Local),
				value:    strings.TrimSpace(attr.Value),
			})
		}
	}
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	for _, decls := range [...][]declaration{presentation, classes, inline} {
		for _, d := range decls {
			if err := c.readStyleAttr(&curStyle, d.property, d.value); err != nil {
				return fmt.Errorf("invalid %s: %w", d.property, err)
			}
		}
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}

// handleError reacts to an unsupported element, according to the error mode
func (c *iconCursor) handleError(errStr string) error {
	switch c.opts.ErrorMode {
	case StrictErrorMode:
		return errors.New(errStr)
	case WarnErrorMode:
		c.log.Warn(errStr)
	}
	return nil
}

func (c *iconCursor) readStartElement(se xml.StartElement) (err error) {
	if se.Name.Local == "style" { // style sheets apply even inside defs
		return styleF(c, se.Attr)
	}
	var skipDef bool
	if se.Name.Local == "radialGradient" || se.Name.Local == "linearGradient" || c.inGrad {
		skipDef = true
	}
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.handleError("Cannot process svg element " + se.Name.Local)
	}
	err = df(c, se.Attr)

	c.flushPath()
	return
}

// flushPath stores the path parsed from the current element, if any
func (c *iconCursor) flushPath() {
	if len(c.path) == 0 {
		return
	}
	pathCopy := append(Path{}, c.path...)
	c.icon.SVGPaths = append(c.icon.SVGPaths,
		SvgPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]})
	c.path = c.path[:0]
}

func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}

func parseBasicFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// absolute length units, in pixels at 96 dpi
var unitToPixels = map[string]float64{
	"px": 1,
	"pt": 96. / 72,
	"pc": 16,
	"mm": 96. / 25.4,
	"cm": 96. / 2.54,
	"in": 96,
	"em": DefaultFontSize,
}

// parseLength parses a length with an optional absolute unit, returning pixels.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	factor := 1.
	if len(s) > 2 {
		if f, ok := unitToPixels[s[len(s)-2:]]; ok {
			factor = f
			s = s[:len(s)-2]
		}
	}
	f, err := parseBasicFloat(s)
	return f * factor, err
}

type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// parseUnit parses a length, resolving percentages against the viewBox
func (c *iconCursor) parseUnit(s string, asPerc percentageReference) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return parseLength(s)
	}
	f, err := parseBasicFloat(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	vb := c.icon.ViewBox
	var ref float64
	switch asPerc {
	case widthPercentage:
		ref = vb.W
	case heightPercentage:
		ref = vb.H
	case diagPercentage:
		ref = math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
	}
	return f / 100 * ref, nil
}

// readGradURL reads an SVG format gradient url
// Since the context of the gradient can affect the colors
// the current fill or line color is passed in and used in
// the case of a nil stopClor value
func (c *iconCursor) readGradURL(v string, defaultColor Pattern) (grad Gradient, ok bool) {
	if strings.HasPrefix(v, "url(") && strings.HasSuffix(v, ")") {
		urlStr := strings.TrimSpace(v[4 : len(v)-1])
		if strings.HasPrefix(urlStr, "#") {
			var g *Gradient
			g, ok = c.icon.grads[urlStr[1:]]
			if ok {
				grad = localizeGradIfStopClrNil(g, defaultColor)
			}
		}
	}
	return
}

// readGradAttr reads an SVG gradient attribute
func (c *iconCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientTransform":
		c.grad.Matrix, err = c.parseTransform(Identity, attr.Value)
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = PadSpread
		case "reflect":
			c.grad.Spread = ReflectSpread
		case "repeat":
			c.grad.Spread = RepeatSpread
		}
	}
	return
}

var errRelativeLength = errors.New("relative length")

// parseAbsoluteLength is like parseLength, but rejects
// empty values and percentages.
func parseAbsoluteLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, errRelativeLength
	}
	return parseLength(s)
}
