// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imagefile loads PNG images, optionally wrapped in gzip, xz or
// lz4 compression as commonly found in initramfs images.
package imagefile

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression identifies a wrapper around the PNG stream.
type Compression int

const (
	None Compression = iota
	Gzip
	XZ
	LZ4
)

func (c Compression) String() string {
	return []string{"none", "gzip", "xz", "lz4"}[c]
}

var magics = []struct {
	c     Compression
	magic []byte
}{
	{Gzip, []byte{0x1F, 0x8B}},
	{XZ, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	{LZ4, []byte{0x04, 0x22, 0x4D, 0x18}},
}

// Sniff reports the compression used by the stream behind r without
// consuming it.
func Sniff(r *bufio.Reader) Compression {
	for _, m := range magics {
		b, err := r.Peek(len(m.magic))
		if err == nil && bytes.Equal(b, m.magic) {
			return m.c
		}
	}
	return None
}

// NewReader strips any compression wrapper from r.
func NewReader(r io.Reader) (io.Reader, Compression, error) {
	br := bufio.NewReader(r)
	c := Sniff(br)
	switch c {
	case Gzip:
		zr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return zr, c, nil
	case XZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return xr, c, nil
	case LZ4:
		return lz4.NewReader(br), c, nil
	}
	return br, c, nil
}

// Decode reads a PNG from r and returns it as RGBA with its origin at 0,0.
func Decode(r io.Reader) (*image.RGBA, error) {
	zr, _, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(zr)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts img to RGBA anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Load reads the PNG file at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
