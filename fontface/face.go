package fontface

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgimage/svgicon"
	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrNoPostScriptName is returned for fonts without a usable PostScript name.
var ErrNoPostScriptName = errors.New("font has no PostScript name")

// Face is a loaded font, identified by its PostScript name.
// It is not safe for concurrent use.
type Face struct {
	name string
	font *sfnt.Font
	buf  sfnt.Buffer
}

// Load parses a font file. TrueType and OpenType files are used directly,
// WOFF, WOFF2 and EOT files are first converted to OpenType.
func Load(data []byte) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		sfd, errC := tdfont.ToSFNT(data)
		if errC != nil {
			return nil, fmt.Errorf("invalid font file: %w", err)
		}
		if f, err = sfnt.Parse(sfd); err != nil {
			return nil, fmt.Errorf("invalid font file: %w", err)
		}
		data = sfd
	}
	face := &Face{font: f}
	face.name, err = f.Name(&face.buf, sfnt.NameIDPostScript)
	if err != nil || face.name == "" {
		// the name table may only use encodings x/image does not decode
		face.name = postScriptName(data)
	}
	if face.name == "" {
		return nil, ErrNoPostScriptName
	}
	return face, nil
}

func postScriptName(data []byte) string {
	sf, err := tdfont.ParseFont(data, 0)
	if err != nil || sf.Name == nil {
		return ""
	}
	if records := sf.Name.Get(tdfont.NamePostScript); 0 < len(records) {
		return records[0].String()
	}
	return ""
}

// Name returns the PostScript name of the face.
func (f *Face) Name() string { return f.name }

// ppem returns the font size as expected by sfnt
func ppem(size float64) fixed.Int26_6 { return fixed.Int26_6(size * 64) }

// Measure returns the advance of text set at the given size.
func (f *Face) Measure(text string, size float64) float64 {
	var (
		advance fixed.Int26_6
		prev    sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			advance += f.kern(prev, idx, size)
		}
		adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem(size), font.HintingNone)
		if err == nil {
			advance += adv
		}
		prev = idx
	}
	return float64(advance) / 64
}

func (f *Face) kern(prev, idx sfnt.GlyphIndex, size float64) fixed.Int26_6 {
	k, err := f.font.Kern(&f.buf, prev, idx, ppem(size), font.HintingNone)
	if err != nil { // most fonts have no kern table
		return 0
	}
	return k
}

// AppendText appends the glyph outlines of text to p, the baseline
// starting at (x, y), and returns the advance.
func (f *Face) AppendText(p *svgicon.Path, text string, size, x, y float64) float64 {
	var (
		pen    = fixed.Int26_6(x * 64)
		origin = fixed.Int26_6(y * 64)
		prev   sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			pen += f.kern(prev, idx, size)
		}
		prev = idx
		segments, err := f.font.LoadGlyph(&f.buf, idx, ppem(size), nil)
		if err == nil {
			appendSegments(p, segments, fixed.Point26_6{X: pen, Y: origin})
		}
		adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem(size), font.HintingNone)
		if err == nil {
			pen += adv
		}
	}
	return float64(pen)/64 - x
}

// appendSegments converts the glyph contours, closing each of them.
// sfnt segments already have the Y axis pointing down, as SVG.
func appendSegments(p *svgicon.Path, segments sfnt.Segments, offset fixed.Point26_6) {
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Stop(true)
			}
			p.Start(seg.Args[0].Add(offset))
			open = true
		case sfnt.SegmentOpLineTo:
			p.Line(seg.Args[0].Add(offset))
		case sfnt.SegmentOpQuadTo:
			p.QuadBezier(seg.Args[0].Add(offset), seg.Args[1].Add(offset))
		case sfnt.SegmentOpCubeTo:
			p.CubeBezier(seg.Args[0].Add(offset), seg.Args[1].Add(offset), seg.Args[2].Add(offset))
		}
	}
	if open {
		p.Stop(true)
	}
}
