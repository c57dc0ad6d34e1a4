// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layer builds the background and image layers pngview shows.
package layer

import (
	"fmt"
	"image"

	"github.com/u-root/pngview/pkg/compositor"
)

// Background is a single colour filling the whole display.
type Background struct {
	colour RGBA4444
	layer  int32
	res    *compositor.Resource
	el     *compositor.Element
}

// NewBackground uploads colour into a 1x1 resource.
func NewBackground(colour RGBA4444, layer int32) (*Background, error) {
	res, err := compositor.NewResource(1, 1)
	if err != nil {
		return nil, err
	}
	if err := res.WriteData(image.NewUniform(colour.NRGBA())); err != nil {
		return nil, err
	}
	return &Background{colour: colour, layer: layer, res: res}, nil
}

// Colour returns the background colour.
func (b *Background) Colour() RGBA4444 {
	return b.colour
}

// AddElement stretches the background over the whole display as part of u.
func (b *Background) AddElement(d *compositor.Display, u *compositor.Update) error {
	if b.el != nil {
		return fmt.Errorf("background: already on display")
	}
	el, err := u.AddElement(b.layer, d.Info().Bounds(), b.res, image.Rectangle{}, compositor.SourceAlpha)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	b.el = el
	return nil
}

// Destroy removes the background from d and frees its resource.
func (b *Background) Destroy(d *compositor.Display) error {
	if err := removeElement(d, b.el); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	b.el = nil
	return b.res.Delete()
}

func removeElement(d *compositor.Display, el *compositor.Element) error {
	if el == nil {
		return nil
	}
	u, err := d.Start()
	if err != nil {
		return err
	}
	if err := u.RemoveElement(el); err != nil {
		return err
	}
	return u.Submit()
}
