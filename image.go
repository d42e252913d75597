// Package svgimage turns SVG documents into bitmaps, at a given scale.
//
// Font faces embedded in the style sheets of the document, as
//
//	@font-face {
//		font-family: MyFont;
//		src: url(data:font/truetype;charset=utf-8;base64,...) format('truetype');
//	}
//
// are registered while parsing, so that text using font-family="MyFont"
// is laid out with the embedded font. Style sheets are analyzed by the
// StyleParser of the Config (see the stylesheet package for the default one).
//
// Errors never escape this package: an invalid document yields an empty
// Image, and an invalid font face is skipped. Pass a Logger to see them.
package svgimage

import (
	"log/slog"
	"math"

	"github.com/benoitkugler/svgimage/fontface"
	"github.com/benoitkugler/svgimage/stylesheet"
	"github.com/benoitkugler/svgimage/svgicon"
	"github.com/benoitkugler/svgimage/svgraster"
)

// Config is shared by all the images built from a Parser.
type Config struct {
	// StyleParser analyzes the <style> elements. When nil,
	// no font face is registered.
	StyleParser stylesheet.Parser

	// Logger receives the parsing diagnostics. When nil, nothing is logged.
	Logger *slog.Logger

	// ErrorMode is passed to svgicon, the default being to
	// ignore unsupported elements.
	ErrorMode svgicon.ErrorMode
}

// Parser builds images with a fixed configuration.
// Create one at the top level of the application and reuse it.
type Parser struct {
	cfg Config
	log *slog.Logger
}

// NewParser returns a parser using cfg.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg, log: svgicon.OrNop(cfg.Logger)}
}

// Parse builds an image from an SVG document.
// The result is never nil: on invalid input, the image has no document.
func (p *Parser) Parse(svg string) *Image {
	img := &Image{
		scale: 1,
		fonts: fontface.NewRegistry(p.log),
	}
	opts := svgicon.Options{
		ErrorMode:    p.cfg.ErrorMode,
		FontFamilies: img.fonts,
		Fonts:        img.fonts,
		Logger:       p.log,
	}
	if p.cfg.StyleParser != nil {
		opts.StyleSheets = &fontFaceCollector{parse: p.cfg.StyleParser, registry: img.fonts, log: p.log}
	}
	doc, err := svgicon.ReadIconString(svg, opts)
	if err != nil {
		p.log.Debug("invalid svg document", "error", err)
		return img
	}
	img.doc = doc
	return img
}

// New is a shortcut for NewParser(cfg).Parse(svg).
func New(svg string, cfg Config) *Image {
	return NewParser(cfg).Parse(svg)
}

// Image is a parsed SVG document, with the font faces
// it declares and the scale used to render it.
type Image struct {
	doc   *svgicon.SvgIcon // nil for invalid documents
	fonts *fontface.Registry
	scale float64
}

// Scale returns the scale factor, 1 by default.
func (im *Image) Scale() float64 { return im.scale }

// SetScale changes the scale factor used by the next call to Image.
// Non positive, infinite or NaN values disable rendering.
func (im *Image) SetScale(scale float64) { im.scale = scale }

// Size returns the intrinsic size of the document,
// or zero if the document is invalid.
func (im *Image) Size() (w, h float64) {
	if im.doc == nil {
		return 0, 0
	}
	return im.doc.Size()
}

// Resolve returns the PostScript name of the font face
// declared for family, if any.
func (im *Image) Resolve(family string) (string, bool) {
	return im.fonts.Resolve(family)
}

// Fonts returns the font faces declared by the document.
func (im *Image) Fonts() *fontface.Registry { return im.fonts }

// Document returns the parsed document, or nil.
func (im *Image) Document() *svgicon.SvgIcon { return im.doc }

// MaxPixelSize is the largest width or height, in pixels, of the bitmaps
// returned by Image.Image.
const MaxPixelSize = 1 << 14

// Image renders the document at its intrinsic size multiplied by the
// current scale, preserving its aspect ratio.
// It returns nil when there is nothing to render: no document, an empty size,
// a scale which is not a positive finite number, or a bitmap larger
// than MaxPixelSize.
func (im *Image) Image() *Bitmap {
	if im.doc == nil {
		return nil
	}
	scale := im.scale
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil
	}
	w, h := im.doc.Size()
	if !(w > 0 && h > 0) {
		return nil
	}
	if scale != 1 {
		w, h = w*scale, h*scale
	}
	if !(w <= MaxPixelSize && h <= MaxPixelSize) {
		return nil
	}

	icon := *im.doc // the transform is modified by the rasterizer
	rgba := svgraster.Rasterize(&icon, pixelLength(w), pixelLength(h), svgraster.AspectFit)
	out := &Bitmap{Image: rgba, Scale: 1}
	if scale != 1 {
		out = out.WithScale(scale)
	}
	return out
}

// pixelLength rounds l, with a minimum of one pixel
func pixelLength(l float64) int {
	return max(1, int(math.Round(l)))
}
