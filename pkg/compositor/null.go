// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"image"
	"image/draw"
	"sync"
)

// Null is an in-memory Output. It keeps a copy of the last presented frame.
type Null struct {
	mu       sync.Mutex
	mode     ModeInfo
	underlay image.Image
	last     *image.RGBA
	presents int
	closed   bool
}

// NewNull returns an output of the given size. underlay may be nil.
func NewNull(mode ModeInfo, underlay image.Image) *Null {
	return &Null{mode: mode, underlay: underlay}
}

func (n *Null) Mode() ModeInfo { return n.mode }

func (n *Null) Underlay() image.Image { return n.underlay }

func (n *Null) Present(frame *image.RGBA) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		n.last = image.NewRGBA(frame.Bounds())
	}
	draw.Draw(n.last, n.last.Bounds(), frame, frame.Bounds().Min, draw.Src)
	n.presents++
	return nil
}

func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// Last returns the last presented frame, or nil.
func (n *Null) Last() *image.RGBA {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Presents counts calls to Present.
func (n *Null) Presents() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.presents
}

// Closed reports whether Close was called.
func (n *Null) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}
