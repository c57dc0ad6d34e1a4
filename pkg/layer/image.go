// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/u-root/pngview/pkg/compositor"
)

// Image shows a picture at a movable position.
type Image struct {
	layer int32
	res   *compositor.Resource
	el    *compositor.Element
	pos   image.Point
}

// NewImage uploads img into a resource of the same size.
func NewImage(img image.Image, layer int32) (*Image, error) {
	res, err := newResource(img)
	if err != nil {
		return nil, fmt.Errorf("image layer: %w", err)
	}
	return &Image{layer: layer, res: res}, nil
}

func newResource(img image.Image) (*compositor.Resource, error) {
	b := img.Bounds()
	res, err := compositor.NewResource(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if err := res.WriteData(img); err != nil {
		return nil, err
	}
	return res, nil
}

// Size returns the image dimensions.
func (l *Image) Size() image.Point {
	w, h := l.res.Size()
	return image.Pt(w, h)
}

// Position returns the top-left corner of the image on the display.
func (l *Image) Position() image.Point {
	return l.pos
}

// String describes the image for logging.
func (l *Image) String() string {
	s := l.Size()
	return fmt.Sprintf("%dx%d image on layer %d (%s)", s.X, s.Y, l.layer, humanize.IBytes(uint64(s.X*s.Y*4)))
}

// Centred returns the top-left corner that centres the image on a
// display of the given mode.
func (l *Image) Centred(mode compositor.ModeInfo) image.Point {
	s := l.Size()
	return image.Pt((mode.Width-s.X)/2, (mode.Height-s.Y)/2)
}

// CentredAt returns the top-left corner that puts the image's centre at x, y.
func (l *Image) CentredAt(x, y int) image.Point {
	s := l.Size()
	return clampPoint(int64(x)-int64(s.X/2), int64(y)-int64(s.Y/2))
}

// maxOffset bounds positions so that position plus image size fits in a
// 32 bit int. Anything that far out is off every display anyway.
const maxOffset = 1 << 30

func clamp(v int64) int {
	switch {
	case v > maxOffset:
		return maxOffset
	case v < -maxOffset:
		return -maxOffset
	}
	return int(v)
}

func clampPoint(x, y int64) image.Point {
	return image.Pt(clamp(x), clamp(y))
}

func (l *Image) dest() image.Rectangle {
	return image.Rectangle{Min: l.pos, Max: l.pos.Add(l.Size())}
}

// AddElementOffset places the image with its top-left corner at x, y as
// part of u.
func (l *Image) AddElementOffset(x, y int, d *compositor.Display, u *compositor.Update) error {
	if l.el != nil {
		return fmt.Errorf("image layer: already on display")
	}
	l.pos = clampPoint(int64(x), int64(y))
	el, err := u.AddElement(l.layer, l.dest(), l.res, image.Rectangle{}, compositor.SourceAlpha)
	if err != nil {
		return fmt.Errorf("image layer: %w", err)
	}
	l.el = el
	return nil
}

// Move puts the top-left corner at x, y as part of u.
func (l *Image) Move(x, y int, u *compositor.Update) error {
	return l.moveTo(clampPoint(int64(x), int64(y)), u)
}

func (l *Image) moveTo(p image.Point, u *compositor.Update) error {
	if l.el == nil {
		return fmt.Errorf("image layer: not on display")
	}
	prev := l.pos
	l.pos = p
	if err := u.ChangeDest(l.el, l.dest()); err != nil {
		l.pos = prev
		return fmt.Errorf("image layer: %w", err)
	}
	return nil
}

// MoveCentre puts the centre of the image at x, y as part of u.
func (l *Image) MoveCentre(x, y int, u *compositor.Update) error {
	return l.moveTo(l.CentredAt(x, y), u)
}

// Replace swaps in new pixels as part of u. The top-left corner stays
// where it is; the size follows img. The old resource is returned so the
// caller can delete it once u has been submitted.
func (l *Image) Replace(img image.Image, u *compositor.Update) (*compositor.Resource, error) {
	if l.el == nil {
		return nil, fmt.Errorf("image layer: not on display")
	}
	res, err := newResource(img)
	if err != nil {
		return nil, fmt.Errorf("image layer: %w", err)
	}
	if err := u.ChangeSource(l.el, res, image.Rectangle{}); err != nil {
		res.Delete()
		return nil, fmt.Errorf("image layer: %w", err)
	}
	b := res.Bounds()
	dst := image.Rectangle{Min: l.pos, Max: l.pos.Add(b.Size())}
	if err := u.ChangeDest(l.el, dst); err != nil {
		res.Delete()
		return nil, fmt.Errorf("image layer: %w", err)
	}
	old := l.res
	l.res = res
	return old, nil
}

// Destroy removes the image from d and frees its resource.
func (l *Image) Destroy(d *compositor.Display) error {
	if err := removeElement(d, l.el); err != nil {
		return fmt.Errorf("image layer: %w", err)
	}
	l.el = nil
	return l.res.Delete()
}
