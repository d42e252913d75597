package svgicon

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Painting a parsed document is delegated to a Driver, which
// provides a Filler and a Stroker for each path. Points reach them
// already transformed to device space, so backends need no SVG knowledge.

// Drawer receives the outline of one path, then paints it.
type Drawer interface {
	// Clear resets the drawer before a new path.
	Clear()

	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	// Stop ends the current contour, joining it to its start when closeLoop is true.
	Stop(closeLoop bool)

	// SetColor selects the paint of the path, a nil Pattern being never passed.
	SetColor(color Pattern, opacity float64)

	// Draw paints the outline received since Clear.
	Draw()
}

// Filler paints the interior of paths.
type Filler interface {
	Drawer
	SetWinding(useNonZeroWinding bool)
}

// Stroker paints the outline of paths.
type Stroker interface {
	Drawer
	SetStrokeOptions(options StrokeOptions)
}

// Driver is a painting backend, such as svgraster.Renderer.
type Driver interface {
	// SetupDrawers is called once per path. A drawer not requested
	// should be returned nil. When both are requested, the stroker
	// receives the same outline as the filler, right after it.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// DashOptions is the dash pattern of a stroke, Dash being empty for solid lines.
type DashOptions struct {
	Dash       []float64
	DashOffset float64
}

// JoinMode is the shape of stroke joins.
type JoinMode uint8

const (
	Arc JoinMode = iota // SVG 2
	Round
	Bevel
	Miter
	MiterClip // SVG 2
	ArcClip   // MiterClip applied to arcs, a rasterx extension
)

var joinNames = [...]string{Arc: "Arc", Round: "Round", Bevel: "Bevel", Miter: "Miter", MiterClip: "MiterClip", ArcClip: "ArcClip"}

func (s JoinMode) String() string {
	if int(s) < len(joinNames) {
		return joinNames[s]
	}
	return "<unknown JoinMode>"
}

// CapMode is the shape of line ends.
type CapMode uint8

const (
	NilCap CapMode = iota // not set, see DefaultStyle
	ButtCap
	SquareCap
	RoundCap
	CubicCap     // rasterx extension
	QuadraticCap // rasterx extension
)

var capNames = [...]string{NilCap: "NilCap", ButtCap: "ButtCap", SquareCap: "SquareCap", RoundCap: "RoundCap", CubicCap: "CubicCap", QuadraticCap: "QuadraticCap"}

func (c CapMode) String() string {
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return "<unknown CapMode>"
}

// GapMode fills the convex side of joins exceeding the miter limit (rasterx extension).
type GapMode uint8

const (
	NilGap GapMode = iota
	FlatGap
	RoundGap
	CubicGap
	QuadraticGap
)

var gapNames = [...]string{NilGap: "NilGap", FlatGap: "FlatGap", RoundGap: "RoundGap", CubicGap: "CubicGap", QuadraticGap: "QuadraticGap"}

func (g GapMode) String() string {
	if int(g) < len(gapNames) {
		return gapNames[g]
	}
	return "<unknown GapMode>"
}

// JoinOptions groups the join and cap settings of a stroke.
// A nil LeadLineCap uses TrailLineCap at both ends.
type JoinOptions struct {
	MiterLimit   fixed.Int26_6
	LineJoin     JoinMode
	TrailLineCap CapMode
	LeadLineCap  CapMode
	LineGap      GapMode
}

// StrokeOptions is what a Stroker needs for one path, in device space.
type StrokeOptions struct {
	LineWidth fixed.Int26_6
	Join      JoinOptions
	Dash      DashOptions
}

// strokeOptions resolves the unset caps and gap, and scales
// the lengths of the style by the linear factor of m.
func (style PathStyle) strokeOptions(m Matrix2D) StrokeOptions {
	scale := math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
	join := style.Join
	if join.LineGap == NilGap {
		join.LineGap = DefaultStyle.Join.LineGap
	}
	if join.TrailLineCap == NilCap {
		join.TrailLineCap = DefaultStyle.Join.TrailLineCap
	}
	if join.LeadLineCap == NilCap {
		join.LeadLineCap = join.TrailLineCap
	}
	dash := DashOptions{DashOffset: style.Dash.DashOffset * scale}
	for _, d := range style.Dash.Dash {
		dash.Dash = append(dash.Dash, d*scale)
	}
	return StrokeOptions{
		LineWidth: fixed.Int26_6(style.LineWidth * scale * 64),
		Join:      join,
		Dash:      dash,
	}
}

// SetTarget maps the viewport onto the rectangle (x, y, w, h),
// stretching it if needed.
func (s *SvgIcon) SetTarget(x, y, w, h float64) {
	vb := s.viewport()
	if vb.W <= 0 || vb.H <= 0 {
		s.Transform = Identity.Translate(x, y)
		return
	}
	s.Transform = Identity.Translate(x, y).Scale(w/vb.W, h/vb.H).Translate(-vb.X, -vb.Y)
}

// SetTargetAspectFit maps the viewport into a w x h rectangle at the origin,
// with a uniform scale: the whole image is visible, centered along the free axis.
func (s *SvgIcon) SetTargetAspectFit(w, h float64) { s.setUniformTarget(w, h, math.Min) }

// SetTargetAspectFill is like SetTargetAspectFit, but the image covers
// the whole rectangle, the overflow being cropped.
func (s *SvgIcon) SetTargetAspectFill(w, h float64) { s.setUniformTarget(w, h, math.Max) }

func (s *SvgIcon) setUniformTarget(w, h float64, pick func(a, b float64) float64) {
	vb := s.viewport()
	if vb.W <= 0 || vb.H <= 0 {
		s.Transform = Identity
		return
	}
	scale := pick(w/vb.W, h/vb.H)
	dx, dy := (w-vb.W*scale)/2, (h-vb.H*scale)/2
	s.Transform = Identity.Translate(dx, dy).Scale(scale, scale).Translate(-vb.X, -vb.Y)
}

// Draw paints the document with d, using the icon Transform.
func (s *SvgIcon) Draw(d Driver, opacity float64) {
	for i := range s.SVGPaths {
		s.SVGPaths[i].draw(d, opacity, s.Transform)
	}
}

// draw paints the path with its style, t being applied
// after the transform of the style.
func (svgp *SvgPath) draw(d Driver, opacity float64, t Matrix2D) {
	m := t.Mult(svgp.Style.transform)
	filler, stroker := d.SetupDrawers(svgp.Style.FillerColor != nil, svgp.Style.LinerColor != nil)
	if filler != nil {
		filler.Clear()
		filler.SetWinding(svgp.Style.UseNonZeroWinding)
		svgp.Path.replay(filler, m)
		filler.SetColor(svgp.Style.FillerColor, svgp.Style.FillOpacity*opacity)
		filler.Draw()
		filler.SetWinding(true)
	}
	if stroker != nil {
		stroker.Clear()
		stroker.SetStrokeOptions(svgp.Style.strokeOptions(m))
		svgp.Path.replay(stroker, m)
		stroker.SetColor(svgp.Style.LinerColor, svgp.Style.LineOpacity*opacity)
		stroker.Draw()
	}
}

// replay sends the operations of p, transformed by m, to d.
func (p Path) replay(d Drawer, m Matrix2D) {
	for _, op := range p {
		op.drawTo(d, m)
	}
	d.Stop(false)
}
