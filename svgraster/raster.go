// Package svgraster implements a raster backend to render SVG images,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"io"
	"math"

	"github.com/benoitkugler/svgimage/svgicon"
	"github.com/srwiley/rasterx"
)

var _ svgicon.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer draws on a rasterx scanner.
type Renderer struct {
	filler *filler
	dasher *dasher
}

type filler struct{ *rasterx.Filler }

type dasher struct{ *rasterx.Dasher }

// NewRenderer returns a renderer drawing with the given scanner.
// If scanner is nil, the renderer paints on a new, blank image.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	if scanner == nil {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		scanner = rasterx.NewScannerGV(width, height, img, img.Bounds())
	}
	return &Renderer{
		filler: &filler{rasterx.NewFiller(width, height, scanner)},
		dasher: &dasher{rasterx.NewDasher(width, height, scanner)},
	}
}

// SetupDrawers implements svgicon.Driver
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f svgicon.Filler, s svgicon.Stroker) {
	if willFill {
		f = rd.filler
	}
	if willStroke {
		s = rd.dasher
	}
	return f, s
}

// ContentMode defines how the icon is mapped into the target image.
type ContentMode uint8

const (
	// ScaleToFill stretches the image to the target size
	ScaleToFill ContentMode = iota
	// AspectFit preserves the aspect ratio, fitting the whole image
	// in the target and centering it.
	AspectFit
	// AspectFill preserves the aspect ratio, covering the whole
	// target and cropping the overflow.
	AspectFill
)

// Rasterize draws the icon into a new width x height image.
// The icon Transform is updated according to mode.
func Rasterize(icon *svgicon.SvgIcon, width, height int, mode ContentMode) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	w, h := float64(width), float64(height)
	switch mode {
	case AspectFit:
		icon.SetTargetAspectFit(w, h)
	case AspectFill:
		icon.SetTargetAspectFill(w, h)
	default:
		icon.SetTarget(0, 0, w, h)
	}
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(NewRenderer(width, height, scanner), 1.0)
	return img
}

// RasterSVGIconToImage parses the icon and renders it
// at its intrinsic size.
func RasterSVGIconToImage(icon io.Reader, opts svgicon.Options) (*image.RGBA, error) {
	parsedIcon, err := svgicon.ReadIconStream(icon, opts)
	if err != nil {
		return nil, err
	}
	w, h := parsedIcon.Size()
	width, height := int(math.Ceil(w)), int(math.Ceil(h))
	return Rasterize(parsedIcon, width, height, ScaleToFill), nil
}

func toRasterxGradient(grad svgicon.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case svgicon.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case svgicon.Radial:
		// fr is not supported by rasterx
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4]
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, s := range grad.Stops {
		stops[i] = rasterx.GradStop{StopColor: s.StopColor, Offset: s.Offset, Opacity: s.Opacity}
	}
	units := rasterx.ObjectBoundingBox
	if grad.Units == svgicon.UserSpaceOnUse {
		units = rasterx.UserSpaceOnUse
	}
	spread := rasterx.PadSpread
	switch grad.Spread {
	case svgicon.ReflectSpread:
		spread = rasterx.ReflectSpread
	case svgicon.RepeatSpread:
		spread = rasterx.RepeatSpread
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Bounds:   grad.Bounds,
		Matrix:   rasterx.Matrix2D(grad.Matrix),
		Spread:   spread,
		Units:    units,
		IsRadial: isRadial,
	}
}

// resolve gradient color
func setColorFromPattern(color svgicon.Pattern, opacity float64, scanner rasterx.Scanner) {
	switch fillerColor := color.(type) {
	case svgicon.PlainColor:
		scanner.SetColor(rasterx.ApplyOpacity(fillerColor, opacity))
	case svgicon.Gradient:
		if fillerColor.Units == svgicon.ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			fillerColor.Bounds.X, fillerColor.Bounds.Y = mnx, mny
			fillerColor.Bounds.W, fillerColor.Bounds.H = mxx-mnx, mxy-mny
		}
		rasterxGradient := toRasterxGradient(fillerColor)
		scanner.SetColor(rasterxGradient.GetColorFunction(opacity))
	}
}

func (f *filler) SetColor(color svgicon.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, f.Scanner)
}

func (d *dasher) SetColor(color svgicon.Pattern, opacity float64) {
	setColorFromPattern(color, opacity, d.Scanner)
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgicon.Round:     rasterx.Round,
		svgicon.Bevel:     rasterx.Bevel,
		svgicon.Miter:     rasterx.Miter,
		svgicon.MiterClip: rasterx.MiterClip,
		svgicon.Arc:       rasterx.Arc,
		svgicon.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgicon.NilCap:       nil,
		svgicon.ButtCap:      rasterx.ButtCap,
		svgicon.SquareCap:    rasterx.SquareCap,
		svgicon.RoundCap:     rasterx.RoundCap,
		svgicon.CubicCap:     rasterx.CubicCap,
		svgicon.QuadraticCap: rasterx.QuadraticCap,
	}

	gapToFunc = [...]rasterx.GapFunc{
		svgicon.NilGap:       nil,
		svgicon.FlatGap:      rasterx.FlatGap,
		svgicon.RoundGap:     rasterx.RoundGap,
		svgicon.CubicGap:     rasterx.CubicGap,
		svgicon.QuadraticGap: rasterx.QuadraticGap,
	}
)

func (d *dasher) SetStrokeOptions(options svgicon.StrokeOptions) {
	d.SetStroke(
		options.LineWidth, options.Join.MiterLimit, capToFunc[options.Join.LeadLineCap],
		capToFunc[options.Join.TrailLineCap], gapToFunc[options.Join.LineGap],
		joinToJoin[options.Join.LineJoin], options.Dash.Dash, options.Dash.DashOffset,
	)
}
