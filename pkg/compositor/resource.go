// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
)

// Resource is a block of pixels elements can show.
type Resource struct {
	mu      sync.RWMutex
	pix     *image.RGBA
	deleted bool
}

// NewResource allocates a transparent w x h resource.
func NewResource(w, h int) (*Resource, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("compositor: invalid resource size %dx%d", w, h)
	}
	return &Resource{pix: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

// Size returns the resource dimensions.
func (r *Resource) Size() (int, int) {
	b := r.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the resource rectangle, anchored at the origin.
func (r *Resource) Bounds() image.Rectangle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pix.Bounds()
}

// WriteData copies img into the resource, aligning img's top-left corner
// with the resource origin. Pixels outside the resource are dropped.
func (r *Resource) WriteData(img image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted {
		return ErrResourceDeleted
	}
	draw.Draw(r.pix, r.pix.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// Delete frees the resource. Elements still pointing at it stop being drawn.
func (r *Resource) Delete() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted {
		return ErrResourceDeleted
	}
	r.deleted = true
	r.pix = &image.RGBA{Rect: r.pix.Rect}
	return nil
}

func (r *Resource) isDeleted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deleted
}
