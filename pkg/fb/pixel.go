// Copyright 2019-2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fb

import (
	"fmt"
	"image"
	"image/color"
)

// Format describes the memory layout of a framebuffer.
// Stride is in pixels, as reported by the framebuffer library.
type Format struct {
	Width  int
	Height int
	Stride int
	Bpp    int
}

// Size returns the number of bytes a full frame takes.
func (f Format) Size() int {
	return f.Stride * f.Height * f.Bpp
}

// Validate checks the format is one we can pack pixels for.
func (f Format) Validate() error {
	switch {
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("invalid resolution %dx%d", f.Width, f.Height)
	case f.Stride < f.Width:
		return fmt.Errorf("stride %d narrower than width %d", f.Stride, f.Width)
	case f.Bpp < 2 || f.Bpp > 4:
		return fmt.Errorf("unsupported %d bytes per pixel", f.Bpp)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dx%d stride %d, %d bpp", f.Width, f.Height, f.Stride, f.Bpp*8)
}

// Encode packs img into buf. The framebuffer is BGR(A); 16 bit
// framebuffers are RGB565, little endian. Pixels of img outside the
// framebuffer are dropped.
func (f Format) Encode(buf []byte, img *image.RGBA) {
	b := img.Bounds().Intersect(image.Rect(0, 0, f.Width, f.Height))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			offset := f.Bpp * (y*f.Stride + x)
			switch f.Bpp {
			case 2:
				p := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
				buf[offset+0] = byte(p)
				buf[offset+1] = byte(p >> 8)
			case 3, 4:
				buf[offset+0] = c.B
				buf[offset+1] = c.G
				buf[offset+2] = c.R
				if f.Bpp == 4 {
					buf[offset+3] = c.A
				}
			}
		}
	}
}

// Decode unpacks a frame. Alpha is always opaque since what is on
// screen is what the viewer sees.
func (f Format) Decode(buf []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			offset := f.Bpp * (y*f.Stride + x)
			if offset+f.Bpp > len(buf) {
				return img
			}
			var c color.RGBA
			switch f.Bpp {
			case 2:
				p := uint16(buf[offset]) | uint16(buf[offset+1])<<8
				c.R = expand(uint8(p>>11), 5)
				c.G = expand(uint8(p>>5)&0x3F, 6)
				c.B = expand(uint8(p)&0x1F, 5)
			case 3, 4:
				c.B = buf[offset+0]
				c.G = buf[offset+1]
				c.R = buf[offset+2]
			}
			c.A = 0xFF
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// expand widens an n bit channel to 8 bits, replicating the top bits.
func expand(v uint8, n uint) uint8 {
	return v<<(8-n) | v>>(2*n-8)
}
