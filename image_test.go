package svgimage

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/benoitkugler/svgimage/fontface"
	"github.com/benoitkugler/svgimage/stylesheet"
	"github.com/tdewolff/test"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const rect = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
	<rect width="100" height="50" fill="red"/>
</svg>`

func withFontFace(family string, font []byte) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
	<style>
		@font-face {
			font-family: %s;
			src: %s;
		}
	</style>
	<text x="5" y="40" font-family="%s" font-size="30">Hi</text>
</svg>`, family, fontface.EncodeSource(font), family)
}

func TestImageScale(t *testing.T) {
	im := New(rect, Config{})
	test.Float(t, im.Scale(), 1)
	w, h := im.Size()
	test.Float(t, w, 100)
	test.Float(t, h, 50)

	bm := im.Image()
	test.That(t, bm != nil)
	pw, ph := bm.PixelSize()
	test.T(t, pw, 100)
	test.T(t, ph, 50)
	test.Float(t, bm.Scale, 1)

	im.SetScale(2)
	bm = im.Image()
	test.That(t, bm != nil)
	pw, ph = bm.PixelSize()
	test.T(t, pw, 200)
	test.T(t, ph, 100)
	test.Float(t, bm.Scale, 2)
	lw, lh := bm.Size()
	test.Float(t, lw, 100)
	test.Float(t, lh, 50)
	test.T(t, bm.Image.RGBAAt(100, 50).R, uint8(0xff))

	// the document is not modified by rendering
	w, h = im.Size()
	test.Float(t, w, 100)
	test.Float(t, h, 50)
}

func TestImageFractionalScale(t *testing.T) {
	im := New(rect, Config{})
	im.SetScale(1.5)
	bm := im.Image()
	pw, ph := bm.PixelSize()
	test.T(t, pw, 150)
	test.T(t, ph, 75)

	im.SetScale(0.001)
	bm = im.Image()
	pw, ph = bm.PixelSize()
	test.T(t, pw, 1)
	test.T(t, ph, 1)
}

func TestImageNothingToRender(t *testing.T) {
	im := New(rect, Config{})
	im.SetScale(0)
	test.That(t, im.Image() == nil)
	im.SetScale(-1)
	test.That(t, im.Image() == nil)
	for _, scale := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		im.SetScale(scale)
		test.That(t, im.Image() == nil, scale)
	}

	empty := New(`<svg width="0" height="0"/>`, Config{})
	test.That(t, empty.Document() != nil)
	test.That(t, empty.Image() == nil)

	for _, svg := range []string{"", "not svg", "<svg><rect></svg>"} {
		im := New(svg, Config{StyleParser: stylesheet.Parse})
		test.That(t, im != nil)
		test.That(t, im.Document() == nil, svg)
		w, h := im.Size()
		test.Float(t, w, 0)
		test.Float(t, h, 0)
		test.That(t, im.Image() == nil, svg)
	}
}

func TestImageTooLarge(t *testing.T) {
	im := New(rect, Config{})
	im.SetScale(1e9)
	test.That(t, im.Image() == nil)

	thin := New(`<svg xmlns="http://www.w3.org/2000/svg" width="128" height="1"/>`, Config{})
	thin.SetScale(MaxPixelSize / 128)
	bm := thin.Image()
	test.That(t, bm != nil)
	pw, ph := bm.PixelSize()
	test.T(t, pw, MaxPixelSize)
	test.T(t, ph, MaxPixelSize/128)
	thin.SetScale(MaxPixelSize/128 + 0.01)
	test.That(t, thin.Image() == nil)

	huge := New(`<svg xmlns="http://www.w3.org/2000/svg" width="1e9" height="10"/>`, Config{})
	test.That(t, huge.Document() != nil)
	test.That(t, huge.Image() == nil)
}

func TestFontFaceDeclaredAfterText(t *testing.T) {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
	<text x="5" y="40" font-family="MyFont" font-size="30">Hi</text>
	<style>
		@font-face {
			font-family: MyFont;
			src: %s;
		}
	</style>
</svg>`, fontface.EncodeSource(goregular.TTF))
	im := New(svg, Config{StyleParser: stylesheet.Parse})

	name, ok := im.Resolve("MyFont")
	test.That(t, ok)
	doc := im.Document()
	test.That(t, doc != nil)
	test.T(t, len(doc.Texts), 1)
	test.T(t, doc.Texts[0].Font.Family, name)
	test.That(t, doc.Texts[0].Outline)
}

func TestFontFaceSubstitution(t *testing.T) {
	im := New(withFontFace("MyFont", goregular.TTF), Config{StyleParser: stylesheet.Parse})

	name, ok := im.Resolve("MyFont")
	test.That(t, ok)
	test.That(t, name != "" && name != "MyFont", name)
	test.T(t, im.Fonts().Families(), []string{"MyFont"})

	doc := im.Document()
	test.That(t, doc != nil)
	test.T(t, len(doc.Texts), 1)
	text := doc.Texts[0]
	test.T(t, text.Content, "Hi")
	test.T(t, text.Font.Family, name)
	test.T(t, text.Font.RequestedFamily, "MyFont")
	test.That(t, text.Outline)
	test.That(t, text.Advance > 0)

	bm := im.Image()
	test.That(t, bm != nil)
	painted := false
	for i := 3; i < len(bm.Image.Pix); i += 4 {
		if bm.Image.Pix[i] != 0 {
			painted = true
			break
		}
	}
	test.That(t, painted, "text should be drawn")
}

func TestFontFaceUnknownFamily(t *testing.T) {
	svg := strings.Replace(withFontFace("MyFont", goregular.TTF),
		`font-family="MyFont"`, `font-family="Unknown"`, 1)
	im := New(svg, Config{StyleParser: stylesheet.Parse})
	_, ok := im.Resolve("Unknown")
	test.That(t, !ok)
	test.T(t, im.Document().Texts[0].Font.Family, "Unknown")
}

func TestFontFaceWithoutStyleParser(t *testing.T) {
	im := New(withFontFace("MyFont", goregular.TTF), Config{})
	_, ok := im.Resolve("MyFont")
	test.That(t, !ok)
	test.T(t, im.Fonts().Len(), 0)
	test.T(t, im.Document().Texts[0].Font.Family, "MyFont")
}

func TestInvalidFontFace(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svg := strings.Replace(withFontFace("MyFont", goregular.TTF), "base64,", "base64,!!", 1)
	im := New(svg, Config{StyleParser: stylesheet.Parse, Logger: logger})
	test.That(t, im.Document() != nil, "the document is still parsed")
	_, ok := im.Resolve("MyFont")
	test.That(t, !ok)
	test.That(t, strings.Contains(logs.String(), "skipping font face"), logs.String())
}

func TestCustomStyleParser(t *testing.T) {
	var sheets []string
	parse := func(text string) stylesheet.Result {
		sheets = append(sheets, text)
		return stylesheet.Result{stylesheet.KeyFontFaces: []map[string]string{
			{stylesheet.PropFontFamily: "Mono", stylesheet.PropSource: fontface.EncodeSource(gomono.TTF)},
			{stylesheet.PropFontFamily: "MissingSource"},
		}}
	}
	im := New(`<svg width="10" height="10"><style>anything</style></svg>`, Config{StyleParser: parse})
	test.T(t, sheets, []string{"anything"})
	test.T(t, im.Fonts().Families(), []string{"Mono"})

	wrongShape := func(string) stylesheet.Result {
		return stylesheet.Result{stylesheet.KeyFontFaces: "MyFont"}
	}
	im = New(withFontFace("MyFont", goregular.TTF), Config{StyleParser: wrongShape})
	test.T(t, im.Fonts().Len(), 0)
}

func TestFontFaceDeclarations(t *testing.T) {
	src := fontface.EncodeSource(goregular.TTF)
	decls := fontFaceDeclarations(stylesheet.Result{stylesheet.KeyFontFaces: []any{
		map[string]any{stylesheet.PropFontFamily: "A", stylesheet.PropSource: src},
		map[string]any{stylesheet.PropFontFamily: 12, stylesheet.PropSource: src},
		map[string]string{stylesheet.PropFontFamily: "B", stylesheet.PropSource: src},
		"garbage",
	}})
	test.T(t, decls, []fontface.Declaration{{Family: "A", Source: src}, {Family: "B", Source: src}})

	test.T(t, len(fontFaceDeclarations(nil)), 0)
	test.T(t, len(fontFaceDeclarations(stylesheet.Result{"other": 1})), 0)
}

func TestParserIsolation(t *testing.T) {
	p := NewParser(Config{StyleParser: stylesheet.Parse})
	first := p.Parse(withFontFace("MyFont", goregular.TTF))
	second := p.Parse(withFontFace("MyFont", gomono.TTF))
	third := p.Parse(rect)

	name1, _ := first.Resolve("MyFont")
	name2, _ := second.Resolve("MyFont")
	test.That(t, name1 != name2, "each image has its own font faces")
	_, ok := third.Resolve("MyFont")
	test.That(t, !ok)
}
