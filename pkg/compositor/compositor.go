// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compositor stacks image elements on a display.
//
// It mirrors the shape of a hardware compositing API: a display is opened,
// pixel data is uploaded into resources, and elements showing a resource
// at a position and layer are added, changed and removed inside updates.
// Nothing becomes visible until an update is submitted, at which point
// the whole frame is composed bottom to top and handed to the Output.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/u-root/pngview/pkg/ulog"
)

var (
	// ErrClosed is returned for operations on a closed display.
	ErrClosed = errors.New("compositor: display closed")
	// ErrSubmitted is returned when an update is used after Submit.
	ErrSubmitted = errors.New("compositor: update already submitted")
	// ErrUnknownElement is returned for elements not on this display.
	ErrUnknownElement = errors.New("compositor: unknown element")
	// ErrResourceDeleted is returned when a deleted resource is used.
	ErrResourceDeleted = errors.New("compositor: resource deleted")
)

// ModeInfo describes the display mode.
type ModeInfo struct {
	Width  int
	Height int
}

// Bounds returns the display rectangle.
func (m ModeInfo) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m ModeInfo) String() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Output is where composed frames end up.
type Output interface {
	// Mode reports the size of the output.
	Mode() ModeInfo
	// Underlay is shown wherever no element covers the screen. A nil
	// underlay is opaque black.
	Underlay() image.Image
	// Present shows a complete frame.
	Present(frame *image.RGBA) error
	Close() error
}

// Display holds the elements shown on one Output.
type Display struct {
	mu       sync.Mutex
	out      Output
	mode     ModeInfo
	elements []*Element
	nextID   int
	frame    *image.RGBA
	closed   bool
	log      ulog.Logger
}

// Open attaches a display to out. A nil logger discards output.
func Open(out Output, log ulog.Logger) (*Display, error) {
	if log == nil {
		log = ulog.Null
	}
	mode := out.Mode()
	if mode.Width <= 0 || mode.Height <= 0 {
		return nil, fmt.Errorf("compositor: invalid display mode %v", mode)
	}
	log.Debugf("display mode %v", mode)
	return &Display{
		out:   out,
		mode:  mode,
		frame: image.NewRGBA(mode.Bounds()),
		log:   log,
	}, nil
}

// Info returns the display mode.
func (d *Display) Info() ModeInfo {
	return d.mode
}

// Start begins a new update.
func (d *Display) Start() (*Update, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	return &Update{d: d}, nil
}

// Close releases the output. Elements still on the display are dropped.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	if n := len(d.elements); n > 0 {
		d.log.Debugf("closing display with %d elements", n)
	}
	d.elements = nil
	return d.out.Close()
}

// Elements returns the number of elements currently on the display.
func (d *Display) Elements() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.elements)
}

// sortElements orders by layer, keeping insertion order within a layer.
func sortElements(els []*Element) {
	sort.SliceStable(els, func(i, j int) bool {
		return els[i].layer < els[j].layer
	})
}
