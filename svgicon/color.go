package svgicon

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Pattern is either a PlainColor or a Gradient.
// A nil Pattern disables the painting operation.
type Pattern interface {
	isPattern()
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// PlainColor is a non premultiplied color
type PlainColor color.NRGBA

// NewPlainColor returns the color r, g, b, a
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{R: r, G: g, B: b, A: a}
}

// RGBA implements color.Color
func (c PlainColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds parameter constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    Bounds
	Matrix    Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// radial or linear
type gradientDirecter interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial stores cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// optionnalColor is nil for 'none'
type optionnalColor struct {
	valid bool
	color PlainColor
}

func (o optionnalColor) asPattern() Pattern {
	if !o.valid {
		return nil
	}
	return o.color
}

func (o optionnalColor) asColor() color.Color {
	if !o.valid {
		return nil
	}
	return o.color
}

// parseSVGColorNum reads the SVG color string e.g. #FBD9BD
func parseSVGColorNum(colorStr string) (r, g, b uint8, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 6:
	case 3:
		// duplicate characters for 3 digit hex numbers
		colorStr = string([]byte{colorStr[0], colorStr[0],
			colorStr[1], colorStr[1], colorStr[2], colorStr[2]})
	default:
		return 0, 0, 0, fmt.Errorf("invalid hex color %s: %w", colorStr, errParamMismatch)
	}
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]}} {
		t, err := strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return 0, 0, 0, err
		}
		*v.c = uint8(t)
	}
	return
}

// parseSVGColor parses an SVG color string in all forms
// including all SVG1.1 names, obtained from the colornames package
func parseSVGColor(colorStr string) (optionnalColor, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	switch v {
	case "none", "":
		return optionnalColor{}, nil
	case "currentcolor":
		return optionnalColor{valid: true, color: NewPlainColor(0, 0, 0, 0xff)}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return optionnalColor{valid: true, color: PlainColor(color.NRGBAModel.Convert(cn).(color.NRGBA))}, nil
	}
	if strings.HasPrefix(v, "url") { // unresolved gradient
		return optionnalColor{valid: true, color: NewPlainColor(0, 0, 0, 0xff)}, nil
	}
	if cStr := strings.TrimPrefix(v, "rgb("); cStr != v {
		vals := strings.Split(strings.TrimSuffix(cStr, ")"), ",")
		if len(vals) != 3 {
			return optionnalColor{}, errParamMismatch
		}
		var cvals [3]uint8
		var err error
		for i := range cvals {
			cvals[i], err = parseColorValue(vals[i])
			if err != nil {
				return optionnalColor{}, err
			}
		}
		return optionnalColor{valid: true, color: NewPlainColor(cvals[0], cvals[1], cvals[2], 0xff)}, nil
	}
	if cStr := strings.TrimPrefix(v, "hsl("); cStr != v {
		vals := strings.Split(strings.TrimSuffix(cStr, ")"), ",")
		if len(vals) != 3 {
			return optionnalColor{}, errParamMismatch
		}
		r, g, b, err := parseHSL(vals[0], vals[1], vals[2])
		if err != nil {
			return optionnalColor{}, err
		}
		return optionnalColor{valid: true, color: NewPlainColor(r, g, b, 0xff)}, nil
	}
	if v[0] == '#' {
		r, g, b, err := parseSVGColorNum(v)
		if err != nil {
			return optionnalColor{}, err
		}
		return optionnalColor{valid: true, color: NewPlainColor(r, g, b, 0xff)}, nil
	}
	return optionnalColor{}, fmt.Errorf("unsupported color %s: %w", colorStr, errParamMismatch)
}

func parseHSL(hue, sat, light string) (r, g, b uint8, err error) {
	H, err := strconv.ParseFloat(strings.TrimSpace(hue), 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hue in hsl: '%s' (%s)", hue, err)
	}
	S, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(sat), "%"), 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid saturation in hsl: '%s' (%s)", sat, err)
	}
	L, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(light), "%"), 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid lightness in hsl: '%s' (%s)", light, err)
	}
	S, L = S/100, L/100
	H = math.Mod(math.Mod(H, 360)+360, 360)

	C := (1 - math.Abs(2*L-1)) * S
	X := C * (1 - math.Abs(math.Mod(H/60, 2)-1))
	m := L - C/2

	var rp, gp, bp float64
	switch {
	case H < 60:
		rp, gp, bp = C, X, 0
	case H < 120:
		rp, gp, bp = X, C, 0
	case H < 180:
		rp, gp, bp = 0, C, X
	case H < 240:
		rp, gp, bp = 0, X, C
	case H < 300:
		rp, gp, bp = X, 0, C
	default:
		rp, gp, bp = C, 0, X
	}
	return clampChannel((rp + m) * 255), clampChannel((gp + m) * 255), clampChannel((bp + m) * 255), nil
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v > 255 {
		return 255
	} else if v < 0 {
		return 0
	}
	return uint8(v)
}

func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		if err != nil {
			return 0, err
		}
		return clampChannel(n * 0xFF / 100), nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return clampChannel(n), nil
}

// getColor returns the first color of a pattern,
// used when a gradient stop has no color
func getColor(pattern Pattern) color.Color {
	switch c := pattern.(type) {
	case Gradient:
		for _, s := range c.Stops {
			if s.StopColor != nil {
				return s.StopColor
			}
		}
	case PlainColor:
		return c
	}
	return colornames.Black
}

func localizeGradIfStopClrNil(g *Gradient, defaultColor Pattern) (grad Gradient) {
	grad = *g
	for _, s := range grad.Stops {
		if s.StopColor == nil {
			stops := make([]GradStop, len(grad.Stops))
			copy(stops, grad.Stops)
			grad.Stops = stops
			clr := getColor(defaultColor)
			for i, s := range stops {
				if s.StopColor == nil {
					grad.Stops[i].StopColor = clr
				}
			}
			break
		}
	}
	return
}
