// Package fontface registers the font faces embedded in SVG style sheets,
// and maps the declared family names to the PostScript name of the fonts.
//
// Sources must be inline data URLs declared as font/truetype. The payload
// itself may be a TrueType or OpenType file, or a WOFF, WOFF2 or EOT file,
// which is converted to sfnt before loading.
package fontface

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/benoitkugler/svgimage/svgicon"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// SourcePrefix starts the only supported src descriptor: an inline TrueType data URL.
	SourcePrefix = "url(data:font/truetype;charset=utf-8;base64,"
	// SourceSuffix ends the src descriptor.
	SourceSuffix = ")format('truetype')"
)

var (
	// ErrMissingFamily is returned for declarations without font-family.
	ErrMissingFamily = errors.New("missing font family")
	// ErrUnsupportedSource is returned for src descriptors not wrapped
	// as an inline TrueType data URL.
	ErrUnsupportedSource = errors.New("unsupported font source")
)

// Declaration is one @font-face rule.
type Declaration struct {
	Family string // font-family
	Source string // src
}

// DecodeSource extracts the font file from a src descriptor of the form
// url(data:font/truetype;charset=utf-8;base64,<payload>)format('truetype').
// Whitespace is ignored.
func DecodeSource(src string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, src)
	payload, ok := strings.CutPrefix(compact, SourcePrefix)
	if !ok {
		return nil, ErrUnsupportedSource
	}
	payload, ok = strings.CutSuffix(payload, SourceSuffix)
	if !ok {
		return nil, ErrUnsupportedSource
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid font payload: %w", err)
	}
	return data, nil
}

// EncodeSource is the inverse of DecodeSource.
func EncodeSource(font []byte) string {
	return SourcePrefix + base64.StdEncoding.EncodeToString(font) + SourceSuffix
}

// Registry maps font family names to loaded faces.
// Each image owns its registry; it is not safe for concurrent use.
type Registry struct {
	names    map[string]string // family -> PostScript name
	faces    map[string]*Face  // PostScript name -> face
	fallback *Face
	log      *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger disables logging.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		names: make(map[string]string),
		faces: make(map[string]*Face),
		log:   svgicon.OrNop(logger),
	}
}

// Register decodes and loads the font of d, and maps its family to the
// PostScript name of the font. Registering a family again replaces the
// previous mapping. On error, the registry is left unchanged.
func (r *Registry) Register(d Declaration) error {
	if d.Family == "" {
		return ErrMissingFamily
	}
	data, err := DecodeSource(d.Source)
	if err != nil {
		return fmt.Errorf("font-face %q: %w", d.Family, err)
	}
	face, err := Load(data)
	if err != nil {
		return fmt.Errorf("font-face %q: %w", d.Family, err)
	}
	r.names[d.Family] = face.Name()
	r.faces[face.Name()] = face
	r.log.Debug("font face registered", "family", d.Family, "postscript", face.Name())
	return nil
}

// Resolve returns the PostScript name registered for family.
func (r *Registry) Resolve(family string) (string, bool) {
	name, ok := r.names[family]
	return name, ok
}

// ResolveFontFamily implements svgicon.FontFamilyResolver
func (r *Registry) ResolveFontFamily(family string) (string, bool) {
	return r.Resolve(family)
}

// Face returns the face registered under the given PostScript name.
func (r *Registry) Face(name string) (*Face, bool) {
	f, ok := r.faces[name]
	return f, ok
}

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	out := make([]string, 0, len(r.names))
	for family := range r.names {
		out = append(out, family)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered families.
func (r *Registry) Len() int { return len(r.names) }

// fallbackFace returns the Go Regular font, loaded on first use.
func (r *Registry) fallbackFace() *Face {
	if r.fallback == nil {
		face, err := Load(goregular.TTF)
		if err != nil { // embedded font, should not happen
			r.log.Error("loading fallback font", "error", err)
			return nil
		}
		r.fallback = face
	}
	return r.fallback
}

// AppendText implements svgicon.FontSet. Families are looked up by
// PostScript name (as substituted while parsing) then by family name.
// Unknown families use the Go Regular font.
func (r *Registry) AppendText(p *svgicon.Path, family string, size float64, text string, x, y float64) (float64, bool) {
	face, ok := r.faces[family]
	if !ok {
		if name, isFamily := r.names[family]; isFamily {
			face, ok = r.faces[name]
		}
	}
	if !ok {
		face = r.fallbackFace()
		if face == nil {
			return 0, false
		}
	}
	return face.AppendText(p, text, size, x, y), true
}
