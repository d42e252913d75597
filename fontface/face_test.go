package fontface

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/benoitkugler/svgimage/svgicon"
	"github.com/tdewolff/test"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoad(t *testing.T) {
	face, err := Load(goregular.TTF)
	test.Error(t, err)
	test.That(t, face.Name() != "")

	_, err = Load([]byte(strings.Repeat("definitely not a font file ", 16)))
	test.That(t, err != nil)
}

func TestFaceAppendText(t *testing.T) {
	face, err := Load(goregular.TTF)
	test.Error(t, err)

	var p svgicon.Path
	advance := face.AppendText(&p, "Hello", 20, 5, 30)
	test.That(t, advance > 0)
	test.Float(t, advance, face.Measure("Hello", 20))

	b := p.Bounds()
	test.That(t, b.X >= 5, "glyphs start after the pen", b)
	test.That(t, b.Y < 30 && b.Y+b.H <= 31, "glyphs stand on the baseline", b)
	test.That(t, b.X+b.W <= 5+advance+1, b)

	// spaces have an advance but no outline
	var space svgicon.Path
	test.That(t, face.AppendText(&space, " ", 20, 0, 0) > 0)
	test.T(t, len(space), 0)
}

// toWOFF packs a TrueType file into a WOFF 1.0 file, with zlib compressed tables.
func toWOFF(t *testing.T, ttf []byte) []byte {
	t.Helper()
	be := binary.BigEndian
	numTables := int(be.Uint16(ttf[4:]))
	dirEnd := 44 + 20*numTables

	var (
		dir      []byte
		tables   []byte
		sfntSize = 12 + 16*numTables
	)
	for i := 0; i < numTables; i++ {
		rec := ttf[12+16*i:]
		offset, length := be.Uint32(rec[8:]), be.Uint32(rec[12:])
		orig := ttf[offset : offset+length]

		var zb bytes.Buffer
		zw := zlib.NewWriter(&zb)
		_, err := zw.Write(orig)
		test.Error(t, err)
		test.Error(t, zw.Close())
		data := zb.Bytes()
		if len(data) >= len(orig) {
			data = orig
		}

		entry := make([]byte, 20)
		copy(entry, rec[:4]) // tag
		be.PutUint32(entry[4:], uint32(dirEnd+len(tables)))
		be.PutUint32(entry[8:], uint32(len(data)))
		be.PutUint32(entry[12:], length)
		be.PutUint32(entry[16:], be.Uint32(rec[4:])) // checksum
		dir = append(dir, entry...)

		tables = append(tables, data...)
		for len(tables)%4 != 0 {
			tables = append(tables, 0)
		}
		sfntSize += int(length+3) &^ 3
	}

	header := make([]byte, 44)
	copy(header, "wOFF")
	copy(header[4:], ttf[:4]) // flavor
	be.PutUint32(header[8:], uint32(dirEnd+len(tables)))
	be.PutUint16(header[12:], uint16(numTables))
	be.PutUint32(header[16:], uint32(sfntSize))
	be.PutUint16(header[20:], 1) // version 1.0

	out := append(header, dir...)
	return append(out, tables...)
}

func TestLoadWOFF(t *testing.T) {
	ttf, err := Load(goregular.TTF)
	test.Error(t, err)

	woff := toWOFF(t, goregular.TTF)
	test.T(t, string(woff[:4]), "wOFF")
	test.That(t, len(woff) < len(goregular.TTF), "tables should be compressed")

	face, err := Load(woff)
	test.Error(t, err)
	test.T(t, face.Name(), ttf.Name())
	test.Float(t, face.Measure("Hello", 20), ttf.Measure("Hello", 20))

	// through a data URL, as embedded in style sheets
	r := NewRegistry(nil)
	test.Error(t, r.Register(Declaration{Family: "Web", Source: EncodeSource(woff)}))
	name, ok := r.Resolve("Web")
	test.That(t, ok)
	test.T(t, name, ttf.Name())
}
