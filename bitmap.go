package svgimage

import "image"

// Bitmap is a rendered image. Its pixel dimensions
// are Scale times its size in logical units.
type Bitmap struct {
	Image *image.RGBA
	Scale float64
}

// PixelSize returns the dimensions of the pixel buffer.
func (b *Bitmap) PixelSize() (w, h int) {
	size := b.Image.Bounds().Size()
	return size.X, size.Y
}

// Size returns the dimensions in logical units.
func (b *Bitmap) Size() (w, h float64) {
	pw, ph := b.PixelSize()
	return float64(pw) / b.Scale, float64(ph) / b.Scale
}

// WithScale returns a bitmap sharing the pixels of b, tagged with scale.
func (b *Bitmap) WithScale(scale float64) *Bitmap {
	return &Bitmap{Image: b.Image, Scale: scale}
}
