package svgraster

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/benoitkugler/svgimage/svgicon"
	"github.com/tdewolff/test"
)

var (
	red         = color.RGBA{R: 0xff, A: 0xff}
	transparent = color.RGBA{}
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
	<rect width="10" height="10" fill="red"/>
</svg>`

func parse(t *testing.T, svg string) *svgicon.SvgIcon {
	t.Helper()
	icon, err := svgicon.ReadIconString(svg, svgicon.Options{})
	if err != nil {
		t.Fatalf("can't parse icon: %s", err)
	}
	return icon
}

func TestRasterizeModes(t *testing.T) {
	img := Rasterize(parse(t, square), 20, 10, ScaleToFill)
	test.T(t, img.Bounds(), image.Rect(0, 0, 20, 10))
	test.T(t, img.RGBAAt(2, 5), red)
	test.T(t, img.RGBAAt(17, 5), red)

	img = Rasterize(parse(t, square), 20, 10, AspectFit)
	test.T(t, img.RGBAAt(2, 5), transparent)
	test.T(t, img.RGBAAt(10, 5), red)
	test.T(t, img.RGBAAt(17, 5), transparent)

	img = Rasterize(parse(t, square), 20, 10, AspectFill)
	test.T(t, img.RGBAAt(2, 5), red)
	test.T(t, img.RGBAAt(17, 1), red)
}

func TestRasterizeViewBoxOrigin(t *testing.T) {
	icon := parse(t, `<svg viewBox="10 10 20 20">
		<rect x="10" y="10" width="10" height="10" fill="red"/>
	</svg>`)
	img := Rasterize(icon, 20, 20, ScaleToFill)
	test.T(t, img.RGBAAt(5, 5), red)
	test.T(t, img.RGBAAt(15, 15), transparent)
}

func TestRasterizeStroke(t *testing.T) {
	icon := parse(t, `<svg viewBox="0 0 20 20">
		<line x1="0" y1="10" x2="20" y2="10" stroke="red" stroke-width="4"/>
	</svg>`)
	img := Rasterize(icon, 20, 20, ScaleToFill)
	test.T(t, img.RGBAAt(10, 10), red)
	test.T(t, img.RGBAAt(10, 2), transparent)
}

func TestRasterizeGradient(t *testing.T) {
	icon := parse(t, `<svg viewBox="0 0 20 10">
		<linearGradient id="g">
			<stop offset="0" stop-color="red"/>
			<stop offset="1" stop-color="blue"/>
		</linearGradient>
		<rect width="20" height="10" fill="url(#g)"/>
	</svg>`)
	img := Rasterize(icon, 20, 10, ScaleToFill)
	left, right := img.RGBAAt(1, 5), img.RGBAAt(18, 5)
	test.That(t, left.R > left.B, "left side should be red", left)
	test.That(t, right.B > right.R, "right side should be blue", right)
}

func TestRasterSVGIconToImage(t *testing.T) {
	img, err := RasterSVGIconToImage(strings.NewReader(`<svg width="30" height="20.5">
		<rect width="30" height="20" fill="red"/>
	</svg>`), svgicon.Options{})
	test.Error(t, err)
	test.T(t, img.Bounds(), image.Rect(0, 0, 30, 21))
	test.T(t, img.RGBAAt(15, 10), red)

	_, err = RasterSVGIconToImage(strings.NewReader("not svg"), svgicon.Options{})
	test.That(t, err != nil)
}
