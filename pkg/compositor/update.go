// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compositor

import (
	"fmt"
	"image"
)

// Alpha controls how an element blends with what is below it.
type Alpha struct {
	// FromSource uses the resource's own alpha channel, scaled by Opacity.
	// Otherwise the resource is treated as opaque and only Opacity applies.
	FromSource bool
	Opacity    uint8
}

// Opaque ignores source alpha entirely.
var Opaque = Alpha{Opacity: 0xFF}

// SourceAlpha blends using the resource's alpha channel.
var SourceAlpha = Alpha{FromSource: true, Opacity: 0xFF}

// Element is a resource placed on the display.
type Element struct {
	d     *Display
	id    int
	layer int32
	dst   image.Rectangle
	src   image.Rectangle
	res   *Resource
	alpha Alpha
}

// Layer returns the element's stacking layer.
func (e *Element) Layer() int32 {
	return e.layer
}

// Dest returns the element's destination rectangle on the display.
func (e *Element) Dest() image.Rectangle {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()
	return e.dst
}

func (e *Element) String() string {
	return fmt.Sprintf("element %d (layer %d)", e.id, e.layer)
}

// Update batches element changes. Nothing is visible until Submit.
type Update struct {
	d         *Display
	ops       []func(*staged) error
	submitted bool
}

// staged is the display state an update builds before it is committed.
type staged struct {
	elements []*Element
	changes  map[*Element]*placement
}

// placement is the mutable part of an element.
type placement struct {
	dst, src image.Rectangle
	res      *Resource
}

func (s *staged) indexOf(el *Element) int {
	for i, e := range s.elements {
		if e == el {
			return i
		}
	}
	return -1
}

func (s *staged) place(el *Element) *placement {
	p, ok := s.changes[el]
	if !ok {
		p = &placement{dst: el.dst, src: el.src, res: el.res}
		s.changes[el] = p
	}
	return p
}

func (u *Update) queue(op func(*staged) error) error {
	if u.submitted {
		return ErrSubmitted
	}
	u.ops = append(u.ops, op)
	return nil
}

func checkSource(res *Resource, src image.Rectangle) (image.Rectangle, error) {
	if res == nil {
		return image.Rectangle{}, fmt.Errorf("compositor: nil resource")
	}
	if res.isDeleted() {
		return image.Rectangle{}, ErrResourceDeleted
	}
	if src.Empty() {
		return res.Bounds(), nil
	}
	if !src.In(res.Bounds()) {
		return image.Rectangle{}, fmt.Errorf("compositor: source %v outside resource %v", src, res.Bounds())
	}
	return src, nil
}

// AddElement places src of res at dst on the given layer. An empty src
// selects the whole resource. The source is scaled to fit dst.
func (u *Update) AddElement(layer int32, dst image.Rectangle, res *Resource, src image.Rectangle, alpha Alpha) (*Element, error) {
	src, err := checkSource(res, src)
	if err != nil {
		return nil, err
	}
	if dst.Empty() {
		return nil, fmt.Errorf("compositor: empty destination %v", dst)
	}
	u.d.mu.Lock()
	u.d.nextID++
	el := &Element{
		d:     u.d,
		id:    u.d.nextID,
		layer: layer,
		dst:   dst,
		src:   src,
		res:   res,
		alpha: alpha,
	}
	u.d.mu.Unlock()

	err = u.queue(func(s *staged) error {
		if res.isDeleted() {
			return ErrResourceDeleted
		}
		s.elements = append(s.elements, el)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// ChangeDest moves or resizes el.
func (u *Update) ChangeDest(el *Element, dst image.Rectangle) error {
	if dst.Empty() {
		return fmt.Errorf("compositor: empty destination %v", dst)
	}
	return u.queue(func(s *staged) error {
		if s.indexOf(el) < 0 {
			return ErrUnknownElement
		}
		s.place(el).dst = dst
		return nil
	})
}

// ChangeSource points el at a different resource or part of it.
func (u *Update) ChangeSource(el *Element, res *Resource, src image.Rectangle) error {
	src, err := checkSource(res, src)
	if err != nil {
		return err
	}
	return u.queue(func(s *staged) error {
		if s.indexOf(el) < 0 {
			return ErrUnknownElement
		}
		if res.isDeleted() {
			return ErrResourceDeleted
		}
		p := s.place(el)
		p.res = res
		p.src = src
		return nil
	})
}

// RemoveElement takes el off the display.
func (u *Update) RemoveElement(el *Element) error {
	return u.queue(func(s *staged) error {
		i := s.indexOf(el)
		if i < 0 {
			return ErrUnknownElement
		}
		s.elements = append(s.elements[:i], s.elements[i+1:]...)
		return nil
	})
}

// Submit applies all queued changes, composes the frame and presents it.
// Either every change is applied or, if one fails, none is and the
// display keeps showing what it showed before.
func (u *Update) Submit() error {
	if u.submitted {
		return ErrSubmitted
	}
	u.submitted = true

	d := u.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	s := &staged{
		elements: append([]*Element(nil), d.elements...),
		changes:  make(map[*Element]*placement),
	}
	for _, op := range u.ops {
		if err := op(s); err != nil {
			return err
		}
	}

	for el, p := range s.changes {
		el.dst, el.src, el.res = p.dst, p.src, p.res
	}
	sortElements(s.elements)
	d.elements = s.elements
	d.compose()
	if err := d.out.Present(d.frame); err != nil {
		return fmt.Errorf("compositor: present: %w", err)
	}
	return nil
}
