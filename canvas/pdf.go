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
	"fmt"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"
)

// PDF is a Canvas which writes every frame to a separate single-page PDF
// file. One device unit becomes one PDF point.
type PDF struct {
	// Pattern is used with fmt.Sprintf and the frame number to form the
	// file name, for example "frame-%04d.pdf". A pattern without a
	// formatting verb names the same file for every frame.
	Pattern string

	Width, Height float64

	// Foreground and Background are grey levels between 0 (black) and
	// 1 (white).
	Foreground, Background float64

	frame int
	rec   Recorder
	err   error
}

var _ Canvas = (*PDF)(nil)

// NewPDF returns a PDF canvas for pages of the given size, drawing white
// on black.
func NewPDF(pattern string, width, height float64) *PDF {
	return &PDF{
		Pattern:    pattern,
		Width:      width,
		Height:     height,
		Foreground: 1,
	}
}

// Clear discards the shapes collected for the current frame.
func (c *PDF) Clear() {
	c.rec.Reset()
}

func (c *PDF) DrawPath(p *path.Data, s Style) {
	c.rec.DrawPath(p, s)
}

func (c *PDF) DrawRect(r rect.Rect, s Style) {
	c.rec.DrawRect(r, s)
}

func (c *PDF) DrawRoundRect(r rect.Rect, rx, ry float64, s Style) {
	c.rec.DrawRoundRect(r, rx, ry, s)
}

// Flush writes the current frame to a new file. Pages with zero area are
// skipped, but still use up a frame number.
func (c *PDF) Flush() {
	name := c.FileName(c.frame)
	c.frame++
	defer c.rec.Reset()

	if !(c.Width > 0 && c.Height > 0) {
		return
	}
	if err := c.writePage(name); err != nil && c.err == nil {
		c.err = fmt.Errorf("%s: %w", name, err)
	}
}

// FileName returns the name of the file for the given frame.
func (c *PDF) FileName(frame int) string {
	return FrameName(c.Pattern, frame)
}

// FrameName formats a file name pattern with a frame number. A pattern
// without a formatting verb is returned unchanged.
func FrameName(pattern string, frame int) string {
	if !strings.Contains(pattern, "%") {
		return pattern
	}
	return fmt.Sprintf(pattern, frame)
}

// Frames returns the number of frames flushed so far.
func (c *PDF) Frames() int {
	return c.frame
}

// Err returns the first error encountered while writing a file.
func (c *PDF) Err() error {
	return c.err
}

func (c *PDF) writePage(name string) error {
	paper := &pdf.Rectangle{URx: c.Width, URy: c.Height}
	page, err := document.CreateSinglePage(name, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(c.Background))
	page.Rectangle(0, 0, c.Width, c.Height)
	page.Fill()

	// PDF has the origin in the bottom-left corner.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, c.Height})

	page.SetFillColor(color.DeviceGray(c.Foreground))
	page.SetStrokeColor(color.DeviceGray(c.Foreground))
	page.SetLineCap(graphics.LineCapButt)
	page.SetLineJoin(graphics.LineJoinRound)

	for _, op := range c.rec.Ops {
		p := op.Outline()
		if p == nil {
			continue
		}

		// the line width must be set before the path is constructed
		if !op.Style.Fill {
			w := op.Style.Width
			if !(w > 0) {
				w = 1
			}
			page.SetLineWidth(w)
		}

		for cmd, pts := range p.Iter().ToCubic() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}

		if op.Style.Fill {
			page.Fill()
		} else {
			page.Stroke()
		}
	}

	return page.Close()
}
