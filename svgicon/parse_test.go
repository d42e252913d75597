package svgicon

import (
	"errors"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func parseIcon(t *testing.T, svg string, opts Options) *SvgIcon {
	t.Helper()
	icon, err := ReadIconString(svg, opts)
	if err != nil {
		t.Fatalf("can't parse icon: %s", err)
	}
	return icon
}

func TestInvalidXML(t *testing.T) {
	_, err := ReadIconString("", Options{})
	test.That(t, err != nil, "empty document should fail")

	_, err = ReadIconString("<svg><rect></svg>", Options{})
	test.That(t, err != nil, "unbalanced tags should fail")
}

func TestShapes(t *testing.T) {
	icon := parseIcon(t, `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20">
		<rect x="1" y="2" width="10" height="5"/>
		<rect x="1" y="2" width="10" height="5" rx="2"/>
		<circle cx="20" cy="10" r="5"/>
		<ellipse cx="20" cy="10" rx="5" ry="3"/>
		<line x1="0" y1="0" x2="10" y2="10" stroke="black"/>
		<polyline points="0,0 10,0 10,10" fill="none" stroke="red"/>
		<polygon points="0,0 10,0 10,10"/>
		<path d="M0 0 L10 0 L10 10 Z"/>
		<rect width="0" height="10"/>
	</svg>`, Options{})
	test.T(t, len(icon.SVGPaths), 8)
	test.T(t, icon.ViewBox, Bounds{W: 40, H: 20})
	test.T(t, icon.SVGPaths[0].Path.Bounds(), Bounds{X: 1, Y: 2, W: 10, H: 5})
	test.That(t, icon.SVGPaths[6].Path[len(icon.SVGPaths[6].Path)-1] == Close{}, "polygon should be closed")
	test.That(t, icon.SVGPaths[5].Style.FillerColor == nil, "fill none")
	test.T(t, icon.SVGPaths[5].Style.LinerColor, Pattern(NewPlainColor(0xff, 0, 0, 0xff)))
}

func TestCircleBounds(t *testing.T) {
	icon := parseIcon(t, `<svg><circle cx="20" cy="10" r="5"/></svg>`, Options{})
	b := icon.SVGPaths[0].Path.Bounds()
	test.Float(t, b.X, 15)
	test.Float(t, b.Y, 5)
	test.Float(t, b.W, 10)
	test.Float(t, b.H, 10)
}

func TestGetPoints(t *testing.T) {
	var c pathCursor
	for _, tt := range []struct {
		in   string
		want []float64
	}{
		{"1 2 3", []float64{1, 2, 3}},
		{"1,2,3", []float64{1, 2, 3}},
		{"1-2.5.5e1", []float64{1, -2.5, 5}},
		{" -1e-1 , +2 ", []float64{-0.1, 2}},
		{"", []float64{}},
	} {
		test.Error(t, c.getPoints(tt.in))
		test.T(t, append([]float64{}, c.points...), tt.want, tt.in)
	}
}

func TestCompilePath(t *testing.T) {
	var c pathCursor
	test.Error(t, c.compilePath("M0 0 L10 0 10 10 Z"))
	test.T(t, len(c.path), 4)

	test.Error(t, c.compilePath("m10 10 h10 v10 h-10 z"))
	test.T(t, c.path.Bounds(), Bounds{X: 10, Y: 10, W: 10, H: 10})

	test.Error(t, c.compilePath("M0 0 C0 10 10 10 10 0 S20 -10 20 0"))
	test.T(t, len(c.path), 3)

	test.Error(t, c.compilePath("M0 0 Q5 10 10 0 T20 0"))
	test.T(t, len(c.path), 3)

	test.Error(t, c.compilePath("M0 10 A10 10 0 0 1 20 10"))
	b := c.path.Bounds()
	test.Float(t, b.X, 0)
	test.Float(t, b.W, 20)
	test.That(t, b.H > 9.9 && b.H < 10.1, "half circle height", b.H)

	err := c.compilePath("M0 0 K10 10")
	test.That(t, errors.Is(err, errCommandUnknown), err)

	err = c.compilePath("M0 0 L10")
	test.That(t, errors.Is(err, errParamMismatch), err)
}

func TestParseColor(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want PlainColor
	}{
		{"#f00", NewPlainColor(0xff, 0, 0, 0xff)},
		{"#00FF00", NewPlainColor(0, 0xff, 0, 0xff)},
		{"rgb(0, 0, 255)", NewPlainColor(0, 0, 0xff, 0xff)},
		{"rgb(100%, 0%, 0%)", NewPlainColor(0xff, 0, 0, 0xff)},
		{"hsl(120, 100%, 50%)", NewPlainColor(0, 0xff, 0, 0xff)},
		{"white", NewPlainColor(0xff, 0xff, 0xff, 0xff)},
	} {
		c, err := parseSVGColor(tt.in)
		test.Error(t, err)
		test.That(t, c.valid, tt.in)
		test.T(t, c.color, tt.want, tt.in)
	}

	c, err := parseSVGColor("none")
	test.Error(t, err)
	test.That(t, !c.valid)

	_, err = parseSVGColor("#12")
	test.That(t, err != nil)
	_, err = parseSVGColor("notacolor")
	test.That(t, err != nil)
}

func TestSize(t *testing.T) {
	for _, tt := range []struct {
		svg  string
		w, h float64
	}{
		{`<svg width="100" height="50"/>`, 100, 50},
		{`<svg width="100px" height="50px" viewBox="0 0 10 10"/>`, 100, 50},
		{`<svg width="1in" height="72pt"/>`, 96, 96},
		{`<svg viewBox="0 0 30 20"/>`, 30, 20},
		{`<svg width="60" viewBox="0 0 30 20"/>`, 60, 40},
		{`<svg width="100%" height="100%" viewBox="0 0 30 20"/>`, 30, 20},
		{`<svg><rect x="10" y="10" width="20" height="5"/></svg>`, 20, 5},
		{`<svg></svg>`, 0, 0},
	} {
		icon := parseIcon(t, tt.svg, Options{})
		w, h := icon.Size()
		test.Float(t, w, tt.w, tt.svg)
		test.Float(t, h, tt.h, tt.svg)
	}
}

func TestErrorMode(t *testing.T) {
	const svg = `<svg><foreignObject/></svg>`
	_, err := ReadIconString(svg, Options{ErrorMode: StrictErrorMode})
	test.That(t, err != nil && strings.Contains(err.Error(), "foreignObject"), err)

	_, err = ReadIconString(svg, Options{ErrorMode: WarnErrorMode})
	test.Error(t, err)
}

func TestUseAndDefs(t *testing.T) {
	icon := parseIcon(t, `<svg width="40" height="40">
		<defs>
			<rect id="r" width="10" height="10" fill="blue"/>
			<linearGradient id="grad" x1="0" x2="1"><stop offset="0" stop-color="red"/><stop offset="1" stop-color="blue"/></linearGradient>
		</defs>
		<use href="#r" x="20" y="5"/>
		<rect width="5" height="5" fill="url(#grad)"/>
	</svg>`, Options{})
	test.T(t, len(icon.SVGPaths), 2)
	test.T(t, icon.SVGPaths[0].Path.Bounds(), Bounds{X: 20, Y: 5, W: 10, H: 10})
	test.T(t, icon.SVGPaths[0].Style.FillerColor, Pattern(NewPlainColor(0, 0, 0xff, 0xff)))
	grad, ok := icon.SVGPaths[1].Style.FillerColor.(Gradient)
	test.That(t, ok, "fill should be a gradient")
	test.T(t, len(grad.Stops), 2)
}

func TestTransform(t *testing.T) {
	icon := parseIcon(t, `<svg>
		<g transform="translate(10, 20)">
			<rect width="10" height="10" transform="scale(2)"/>
		</g>
	</svg>`, Options{})
	test.T(t, icon.ContentBounds(), Bounds{X: 10, Y: 20, W: 20, H: 20})
}

type recordingVisitor struct{ sheets []string }

func (r *recordingVisitor) VisitStyleSheet(text string) { r.sheets = append(r.sheets, text) }

func TestStyleSheets(t *testing.T) {
	visitor := new(recordingVisitor)
	icon := parseIcon(t, `<svg>
		<defs><style>.red { fill: #ff0000 }</style></defs>
		<style><![CDATA[.thick, .wide { stroke: black; stroke-width: 4 }]]></style>
		<rect class="red" width="10" height="10"/>
		<rect class="red thick" width="10" height="10" style="fill: #00ff00"/>
		<rect class="wide" width="10" height="10"/>
	</svg>`, Options{StyleSheets: visitor})

	test.T(t, visitor.sheets, []string{
		".red { fill: #ff0000 }",
		".thick, .wide { stroke: black; stroke-width: 4 }",
	})
	test.T(t, len(icon.SVGPaths), 3)
	test.T(t, icon.SVGPaths[0].Style.FillerColor, Pattern(NewPlainColor(0xff, 0, 0, 0xff)))
	// the style attribute wins over the class rules
	test.T(t, icon.SVGPaths[1].Style.FillerColor, Pattern(NewPlainColor(0, 0xff, 0, 0xff)))
	test.Float(t, icon.SVGPaths[1].Style.LineWidth, 4)
	test.Float(t, icon.SVGPaths[2].Style.LineWidth, 4)
}

func TestFontFaceRulesDoNotStyle(t *testing.T) {
	icon := parseIcon(t, `<svg>
		<style>@font-face { font-family: MyFont; fill: red } .a { stroke-width: 3 }</style>
		<rect class="a" width="10" height="10"/>
	</svg>`, Options{})
	test.Float(t, icon.SVGPaths[0].Style.LineWidth, 3)
	test.T(t, icon.SVGPaths[0].Style.FillerColor, DefaultStyle.FillerColor)
}

type mapResolver struct {
	names map[string]string
	asked []string
}

func (m *mapResolver) ResolveFontFamily(family string) (string, bool) {
	m.asked = append(m.asked, family)
	s, ok := m.names[family]
	return s, ok
}

// fixedAdvanceFonts draws a square per character, advancing of size
type fixedAdvanceFonts struct{ families []string }

func (f *fixedAdvanceFonts) AppendText(p *Path, family string, size float64, text string, x, y float64) (float64, bool) {
	f.families = append(f.families, family)
	for range text {
		p.addRect(x, y-size, x+size, y, 0)
		x += size
	}
	return size * float64(len(text)), true
}

func TestFontFamilyResolver(t *testing.T) {
	resolver := &mapResolver{names: map[string]string{"MyFont": "MyFont-Regular"}}
	fonts := new(fixedAdvanceFonts)
	icon := parseIcon(t, `<svg width="100" height="50">
		<text x="10" y="40" font-family="'MyFont', serif" font-size="10">Hi</text>
		<g style="font-family: Other">
			<text x="10" y="20">  a   b </text>
		</g>
	</svg>`, Options{FontFamilies: resolver, Fonts: fonts})

	test.T(t, resolver.asked, []string{"MyFont", "Other"})
	test.T(t, fonts.families, []string{"MyFont-Regular", "Other"})
	test.T(t, len(icon.Texts), 2)

	hi := icon.Texts[0]
	test.T(t, hi.Content, "Hi")
	test.T(t, hi.Font.Family, "MyFont-Regular")
	test.T(t, hi.Font.RequestedFamily, "MyFont")
	test.Float(t, hi.Font.Size, 10)
	test.Float(t, hi.Advance, 20)
	test.That(t, hi.Outline)

	other := icon.Texts[1]
	test.T(t, other.Content, "a b ")
	test.T(t, other.Font.Family, "Other")
	test.Float(t, other.Font.Size, DefaultFontSize)

	test.T(t, len(icon.SVGPaths), 2)
	test.T(t, icon.SVGPaths[0].Path.Bounds(), Bounds{X: 10, Y: 30, W: 20, H: 10})
}

func TestTextAnchor(t *testing.T) {
	icon := parseIcon(t, `<svg width="100" height="50">
		<text x="50" y="40" font-size="10" text-anchor="middle">abcd</text>
		<text x="50" y="40" font-size="10" text-anchor="end">ab<tspan font-size="20">c</tspan></text>
		<text x="0" y="10" font-size="10">a<tspan x="30" dy="5">b</tspan></text>
	</svg>`, Options{Fonts: new(fixedAdvanceFonts)})

	test.T(t, len(icon.Texts), 5)
	test.Float(t, icon.Texts[0].X, 30)
	// the chunk "ab" + "c" is 40 wide
	test.Float(t, icon.Texts[1].X, 10)
	test.Float(t, icon.Texts[2].X, 30)
	test.Float(t, icon.Texts[2].Font.Size, 20)
	test.Float(t, icon.Texts[4].X, 30)
	test.Float(t, icon.Texts[4].Y, 15)

	test.T(t, icon.SVGPaths[0].Path.Bounds(), Bounds{X: 30, Y: 30, W: 40, H: 10})
}

func TestTextWithoutFonts(t *testing.T) {
	icon := parseIcon(t, `<svg><text x="0" y="10" font-size="10">abc</text></svg>`, Options{})
	test.T(t, len(icon.SVGPaths), 0)
	test.T(t, len(icon.Texts), 1)
	test.That(t, !icon.Texts[0].Outline)
	test.Float(t, icon.Texts[0].Advance, 15)
}

func TestSetTarget(t *testing.T) {
	icon := parseIcon(t, `<svg viewBox="10 10 20 10"/>`, Options{})

	icon.SetTarget(0, 0, 40, 40)
	x, y := icon.Transform.Transform(10, 10)
	test.Float(t, x, 0)
	test.Float(t, y, 0)
	x, y = icon.Transform.Transform(30, 20)
	test.Float(t, x, 40)
	test.Float(t, y, 40)

	icon.SetTargetAspectFit(40, 40)
	x, y = icon.Transform.Transform(10, 10)
	test.Float(t, x, 0)
	test.Float(t, y, 10)
	x, y = icon.Transform.Transform(30, 20)
	test.Float(t, x, 40)
	test.Float(t, y, 30)
}

// faceDeclarations resolves the families named by "@font-face name"
// style sheets, mimicking a font registry.
type faceDeclarations struct {
	names map[string]string
}

func (f *faceDeclarations) VisitStyleSheet(text string) {
	for _, family := range strings.Fields(text) {
		if family != "@font-face" {
			f.names[family] = family + "-PS"
		}
	}
}

func (f *faceDeclarations) ResolveFontFamily(family string) (string, bool) {
	s, ok := f.names[family]
	return s, ok
}

func TestStyleSheetsBeforeLayout(t *testing.T) {
	faces := &faceDeclarations{names: map[string]string{}}
	icon := parseIcon(t, `<svg width="100" height="50">
		<text x="10" y="40" font-family="MyFont">Hi</text>
		<rect class="late" width="10" height="10"/>
		<g><text font-family="Nested">Yo</text></g>
		<style>@font-face MyFont</style>
		<defs><style>@font-face Nested</style><style>.late { fill: #0000ff }</style></defs>
	</svg>`, Options{StyleSheets: faces, FontFamilies: faces, Fonts: new(fixedAdvanceFonts)})

	test.T(t, len(icon.Texts), 2)
	test.T(t, icon.Texts[0].Font.Family, "MyFont-PS")
	test.T(t, icon.Texts[0].Font.RequestedFamily, "MyFont")
	test.T(t, icon.Texts[1].Font.Family, "Nested-PS")
	// the rect is stored after the outlines of the first text
	test.T(t, icon.SVGPaths[1].Style.FillerColor, Pattern(NewPlainColor(0, 0, 0xff, 0xff)))
}

func TestStyleSheetsVisitedOnce(t *testing.T) {
	visitor := new(recordingVisitor)
	_, err := ReadIconString(`<svg><style>a</style><g><style>b</style></g></svg>`, Options{StyleSheets: visitor})
	test.Error(t, err)
	test.T(t, visitor.sheets, []string{"a", "b"})
}
