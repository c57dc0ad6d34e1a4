// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// compose redraws d.frame from the underlay and all elements, bottom up.
// Called with d.mu held.
func (d *Display) compose() {
	b := d.frame.Bounds()
	draw.Draw(d.frame, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	if u := d.out.Underlay(); u != nil {
		draw.Draw(d.frame, b, u, u.Bounds().Min, draw.Src)
	}
	for _, el := range d.elements {
		drawElement(d.frame, el)
	}
}

func drawElement(dst *image.RGBA, el *Element) {
	if el.alpha.Opacity == 0 || !el.dst.Overlaps(dst.Bounds()) {
		return
	}
	el.res.mu.RLock()
	defer el.res.mu.RUnlock()
	if el.res.deleted {
		return
	}

	var src image.Image = el.res.pix
	if !el.alpha.FromSource {
		src = opaque{el.res.pix}
	}
	var opts *xdraw.Options
	if el.alpha.Opacity != 0xFF {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: el.alpha.Opacity}),
		}
	}
	xdraw.NearestNeighbor.Scale(dst, el.dst, src, el.src, xdraw.Over, opts)
}

// opaque presents an RGBA image with every pixel's alpha forced to full.
// Pixels keep their unpremultiplied colour.
type opaque struct {
	pix *image.RGBA
}

func (o opaque) ColorModel() color.Model { return color.NRGBAModel }

func (o opaque) Bounds() image.Rectangle { return o.pix.Bounds() }

func (o opaque) At(x, y int) color.Color {
	c := color.NRGBAModel.Convert(o.pix.RGBAAt(x, y)).(color.NRGBA)
	c.A = 0xFF
	return c
}
