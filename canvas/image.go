// seehuhn.de/go/audiovis - audio visualisation rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/audiovis/raster"
)

// Image is a Canvas which paints into an RGBA image. Shapes are drawn
// with anti-aliasing, in a single foreground colour.
//
// Strokes use round joins and butt caps. A stroke width of zero or less
// draws a line one pixel wide.
type Image struct {
	Img        *image.RGBA
	Foreground color.Color
	Background color.Color

	// OnFlush, if set, is called with the finished image at the end of
	// every frame. The first error returned is kept and reported by Err.
	OnFlush func(*image.RGBA) error

	r   *raster.Rasterizer
	err error

	// premultiplied foreground colour
	fr, fg, fb, fa uint32
}

var _ Canvas = (*Image)(nil)

// NewImage returns an Image of the given size, drawing white on black.
func NewImage(width, height int) *Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	clip := rect.Rect{URx: float64(width), URy: float64(height)}
	r := raster.NewRasterizer(clip)
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinRound
	return &Image{
		Img:        img,
		Foreground: color.White,
		Background: color.Black,
		r:          r,
	}
}

// Clear fills the whole image with the background colour.
func (c *Image) Clear() {
	draw.Draw(c.Img, c.Img.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
}

func (c *Image) DrawPath(p *path.Data, s Style) {
	c.fr, c.fg, c.fb, c.fa = c.Foreground.RGBA()
	if s.Fill {
		c.r.Fill(p, c.blend)
		return
	}
	c.r.Width = s.Width
	if !(s.Width > 0) {
		c.r.Width = 1
	}
	c.r.Stroke(p, c.blend)
}

func (c *Image) DrawRect(r rect.Rect, s Style) {
	c.DrawPath(RectPath(r), s)
}

func (c *Image) DrawRoundRect(r rect.Rect, rx, ry float64, s Style) {
	c.DrawPath(RoundRectPath(r, rx, ry), s)
}

// Flush passes the image to OnFlush.
func (c *Image) Flush() {
	if c.OnFlush == nil {
		return
	}
	if err := c.OnFlush(c.Img); err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns the first error reported by OnFlush.
func (c *Image) Err() error {
	return c.err
}

// blend paints the foreground colour over one row of pixels, using the
// coverage values as opacity.
func (c *Image) blend(y, xMin int, coverage []float32) {
	const m = 0xffff
	pix := c.Img.Pix[c.Img.PixOffset(xMin, y):]
	for i, cov := range coverage {
		a := uint32(cov*m + 0.5)
		inv := m - c.fa*a/m
		q := pix[4*i : 4*i+4 : 4*i+4]
		q[0] = uint8((uint32(q[0])*0x101*inv/m + c.fr*a/m) >> 8)
		q[1] = uint8((uint32(q[1])*0x101*inv/m + c.fg*a/m) >> 8)
		q[2] = uint8((uint32(q[2])*0x101*inv/m + c.fb*a/m) >> 8)
		q[3] = uint8((uint32(q[3])*0x101*inv/m + c.fa*a/m) >> 8)
	}
}
