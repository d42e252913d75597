// Package svgicon parses SVG images into an abstract representation,
// which can then be consumed by painting drivers (see svgraster).
//
// Two extension points are exposed to the host through Options:
// a StyleSheetVisitor receiving the raw text of every <style> element,
// and a FontFamilyResolver substituting the font-family names
// met while parsing. Text elements are laid out with a FontSet.
package svgicon

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// PathStyle holds the state of the SVG style
type PathStyle struct {
	FillOpacity, LineOpacity float64
	LineWidth                float64
	UseNonZeroWinding        bool

	Join                    JoinOptions
	Dash                    DashOptions
	FillerColor, LinerColor Pattern // either PlainColor or Gradient

	Font FontStyle

	transform Matrix2D // current transform
}

// FontStyle is the inherited text state.
type FontStyle struct {
	Family          string // after substitution by the FontFamilyResolver
	RequestedFamily string // as written in the document
	Size            float64
	Anchor          TextAnchor
}

// SvgPath binds a style to a path
type SvgPath struct {
	Path  Path
	Style PathStyle
}

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// SvgIcon holds data from parsed SVGs.
// See the `Draw` methods to use it.
type SvgIcon struct {
	ViewBox      Bounds
	Titles       []string // Title elements collect here
	Descriptions []string // Description elements collect here
	SVGPaths     []SvgPath
	Texts        []SvgText // laid out text runs, in document order
	Transform    Matrix2D

	Width, Height string // top level width and height attributes

	grads map[string]*Gradient
	defs  map[string][]definition
}

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode logs a warning message for unparsed SVG elements
	WarnErrorMode

	// StrictErrorMode returns an error for unparsed SVG elements
	StrictErrorMode
)

// StyleSheetVisitor receives the raw content of each <style> element,
// once the element is closed.
type StyleSheetVisitor interface {
	VisitStyleSheet(text string)
}

// FontFamilyResolver is asked for a substitute of every font family
// found in the document. When ok is false, the family is kept unchanged.
type FontFamilyResolver interface {
	ResolveFontFamily(family string) (resolved string, ok bool)
}

// Options configures the parsing. The zero value is valid:
// unsupported elements are ignored, text is recorded
// without outlines and nothing is logged.
type Options struct {
	ErrorMode    ErrorMode
	StyleSheets  StyleSheetVisitor
	FontFamilies FontFamilyResolver
	Fonts        FontSet
	Logger       *slog.Logger
}

var nopLogger = slog.New(nopHandler{})

// ReadIconStream reads the Icon from the given io.Reader.
// This only supports a sub-set of SVG, but
// is enough to draw many icons. opts.ErrorMode determines if the icon ignores, errors out, or logs a warning
// if it does not handle an element found in the icon file.
// The stream is read entirely first, so that the <style> elements
// apply to the whole document, wherever they are.
func ReadIconStream(stream io.Reader, opts Options) (*SvgIcon, error) {
	icon := &SvgIcon{defs: make(map[string][]definition), grads: make(map[string]*Gradient), Transform: Identity}
	cursor := &iconCursor{
		styleStack: []PathStyle{DefaultStyle},
		icon:       icon,
		opts:       opts,
		log:        OrNop(opts.Logger),
		classRules: make(map[string][]declaration),
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	// style sheets apply to the whole document, wherever they appear
	cursor.readStyleSheets(data)

	decoder := newDecoder(data)
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, errors.New("invalid svg xml icon")
				}
				break
			}
			return icon, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			err = cursor.pushStyle(se.Attr)
			if err != nil {
				return icon, err
			}
			err = cursor.readStartElement(se)
			if err != nil {
				return icon, err
			}
		case xml.EndElement:
			// pop style
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			switch se.Name.Local {
			case "g":
				if cursor.inDefs {
					cursor.currentDef = append(cursor.currentDef, definition{
						Tag: "endg",
					})
				}
			case "title":
				cursor.inTitleText = false
			case "desc":
				cursor.inDescText = false
			case "style":
				cursor.endStyle()
			case "text":
				cursor.endText()
			case "defs":
				if len(cursor.currentDef) > 0 {
					cursor.icon.defs[cursor.currentDef[0].ID] = cursor.currentDef
					cursor.currentDef = make([]definition, 0)
				}
				cursor.inDefs = false
			case "radialGradient", "linearGradient":
				cursor.inGrad = false
			}
		case xml.CharData:
			switch {
			case cursor.inTitleText:
				icon.Titles[len(icon.Titles)-1] += string(se)
			case cursor.inDescText:
				icon.Descriptions[len(icon.Descriptions)-1] += string(se)
			case cursor.inStyle: // already handled by readStyleSheets
			case cursor.text != nil:
				cursor.addText(string(se))
			}
		}
	}
	return icon, nil
}

func newDecoder(data []byte) *xml.Decoder {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// readStyleSheets hands the content of every <style> element to the
// StyleSheetVisitor and records the class rules, before any element is styled.
// Syntax errors are left to the main pass.
func (c *iconCursor) readStyleSheets(data []byte) {
	decoder := newDecoder(data)
	var (
		inStyle bool
		sheet   strings.Builder
	)
	for {
		t, err := decoder.Token()
		if err != nil {
			return
		}
		switch se := t.(type) {
		case xml.StartElement:
			if se.Name.Local == "style" {
				inStyle = true
				sheet.Reset()
			}
		case xml.EndElement:
			if se.Name.Local == "style" && inStyle {
				inStyle = false
				text := sheet.String()
				if c.opts.StyleSheets != nil {
					c.opts.StyleSheets.VisitStyleSheet(text)
				}
				parseClassRules(text, c.classRules)
			}
		case xml.CharData:
			if inStyle {
				sheet.Write(se)
			}
		}
	}
}

// ReadIcon reads the Icon from the named file.
// See ReadIconStream for the supported features.
func ReadIcon(iconFile string, opts Options) (*SvgIcon, error) {
	fin, errf := os.Open(iconFile)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	return ReadIconStream(fin, opts)
}

// ReadIconString is a convenience wrapper around ReadIconStream.
func ReadIconString(svg string, opts Options) (*SvgIcon, error) {
	return ReadIconStream(strings.NewReader(svg), opts)
}
