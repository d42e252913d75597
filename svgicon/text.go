package svgicon

import (
	"encoding/xml"
	"strings"
	"unicode/utf8"
)

// FontSet provides the glyph outlines used to lay out text elements.
type FontSet interface {
	// AppendText appends to p the outlines of text, set in the given family
	// and size, with the baseline starting at (x, y).
	// It returns the advance of the text, and false if no face
	// could be found for family (in which case p is left untouched).
	AppendText(p *Path, family string, size float64, text string, x, y float64) (advance float64, ok bool)
}

// TextAnchor is the alignment of a text chunk relative to its position.
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

func (a TextAnchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "<unknown TextAnchor>"
	}
}

func parseTextAnchor(v string) (TextAnchor, bool) {
	switch v {
	case "start":
		return AnchorStart, true
	case "middle":
		return AnchorMiddle, true
	case "end":
		return AnchorEnd, true
	}
	return 0, false
}

// SvgText is a run of characters sharing the same style,
// as laid out by the parser.
type SvgText struct {
	X, Y    float64 // start of the baseline, after anchoring
	Advance float64
	Content string
	Font    FontStyle
	Outline bool // false when no glyphs were available
}

type pendingRun struct {
	text  SvgText
	path  Path
	style PathStyle
}

// textCursor is the state of the current <text> element
type textCursor struct {
	x, y        float64
	chunk       []pendingRun // since the last absolute position
	chunkAnchor TextAnchor
	atStart     bool // no character yet, used to trim leading spaces
}

// average advance, relative to the font size, used without FontSet
const fallbackAdvance = 0.5

func (c *iconCursor) readTextPosition(attrs []xml.Attr) (absolute bool, err error) {
	first := func(v string) (float64, error) {
		if err := c.getPoints(v); err != nil {
			return 0, err
		}
		if len(c.points) == 0 {
			return 0, errParamMismatch
		}
		return c.points[0], nil
	}
	for _, attr := range attrs {
		var f float64
		switch attr.Name.Local {
		case "x":
			if f, err = first(attr.Value); err == nil {
				c.text.x, absolute = f+c.curX, true
			}
		case "y":
			if f, err = first(attr.Value); err == nil {
				c.text.y, absolute = f+c.curY, true
			}
		case "dx":
			if f, err = first(attr.Value); err == nil {
				c.text.x += f
			}
		case "dy":
			if f, err = first(attr.Value); err == nil {
				c.text.y += f
			}
		}
		if err != nil {
			return absolute, err
		}
	}
	return absolute, nil
}

func textF(c *iconCursor, attrs []xml.Attr) error {
	if c.text != nil { // nested text is invalid: close the previous one
		c.endText()
	}
	c.text = &textCursor{atStart: true}
	_, err := c.readTextPosition(attrs)
	c.text.chunkAnchor = c.styleStack[len(c.styleStack)-1].Font.Anchor
	return err
}

func tspanF(c *iconCursor, attrs []xml.Attr) error {
	if c.text == nil {
		return nil
	}
	absolute, err := c.readTextPosition(attrs)
	if err != nil {
		return err
	}
	if absolute { // starts a new chunk
		newX, newY := c.text.x, c.text.y
		c.flushChunk()
		c.text.x, c.text.y = newX, newY
		c.text.chunkAnchor = c.styleStack[len(c.styleStack)-1].Font.Anchor
	}
	return nil
}

// collapseSpaces applies the default xml:space handling
func collapseSpaces(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

// addText lays out a run of characters at the current pen position,
// using the style on top of the stack.
func (c *iconCursor) addText(raw string) {
	content := collapseSpaces(raw)
	if c.text.atStart {
		content = strings.TrimLeft(content, " ")
	}
	if content == "" {
		return
	}
	c.text.atStart = false

	style := c.styleStack[len(c.styleStack)-1]
	font := style.Font
	run := pendingRun{
		text:  SvgText{X: c.text.x, Y: c.text.y, Content: content, Font: font},
		style: style,
	}
	var ok bool
	if c.opts.Fonts != nil {
		run.text.Advance, ok = c.opts.Fonts.AppendText(&run.path, font.Family, font.Size, content, c.text.x, c.text.y)
	}
	if !ok {
		c.log.Debug("no glyphs for text", "family", font.Family, "text", content)
		run.text.Advance = fallbackAdvance * font.Size * float64(utf8.RuneCountInString(content))
	}
	run.text.Outline = ok
	c.text.x += run.text.Advance
	c.text.chunk = append(c.text.chunk, run)
}

// flushChunk anchors the pending runs and stores them in the icon
func (c *iconCursor) flushChunk() {
	chunk := c.text.chunk
	c.text.chunk = nil
	if len(chunk) == 0 {
		return
	}
	var width float64
	for _, run := range chunk {
		width += run.text.Advance
	}
	var shift float64
	switch c.text.chunkAnchor {
	case AnchorMiddle:
		shift = -width / 2
	case AnchorEnd:
		shift = -width
	}
	for _, run := range chunk {
		run.text.X += shift
		c.icon.Texts = append(c.icon.Texts, run.text)
		if len(run.path) == 0 {
			continue
		}
		var p Path
		p.Append(run.path, shift, 0)
		c.icon.SVGPaths = append(c.icon.SVGPaths, SvgPath{Path: p, Style: run.style})
	}
}

func (c *iconCursor) endText() {
	if c.text == nil {
		return
	}
	c.flushChunk()
	c.text = nil
}
