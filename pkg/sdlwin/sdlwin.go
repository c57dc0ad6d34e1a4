// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sdl
// +build sdl

// Package sdlwin shows composed frames in an SDL window, for trying
// layouts on a desktop before putting them on the device.
package sdlwin

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/ulog"
	"github.com/veandco/go-sdl2/sdl"
)

// pollInterval is how often window events are serviced between frames.
const pollInterval = 50 * time.Millisecond

type request struct {
	frame *image.RGBA
	done  chan error
}

// Window is a compositor.Output backed by an SDL window. All SDL calls
// happen on one locked OS thread owned by the window.
type Window struct {
	mode   compositor.ModeInfo
	frames chan request
	stop   chan chan error
	onQuit func()
	log    ulog.Logger
}

var _ compositor.Output = (*Window)(nil)

// Open creates a window of the given size. onQuit is called, once, when
// the user closes the window.
func Open(title string, mode compositor.ModeInfo, onQuit func(), log ulog.Logger) (*Window, error) {
	if log == nil {
		log = ulog.Null
	}
	if onQuit == nil {
		onQuit = func() {}
	}
	w := &Window{
		mode:   mode,
		frames: make(chan request),
		stop:   make(chan chan error),
		onQuit: onQuit,
		log:    log,
	}
	ready := make(chan error)
	go w.service(title, ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) service(title string, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		ready <- fmt.Errorf("sdl: %w", err)
		return
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED),
		int32(w.mode.Width), int32(w.mode.Height),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		ready <- fmt.Errorf("sdl: %w", err)
		return
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		ready <- fmt.Errorf("sdl: %w", err)
		return
	}
	defer renderer.Destroy()

	// ABGR8888 is R, G, B, A in memory on little endian machines, which is
	// the layout of image.RGBA.
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(w.mode.Width), int32(w.mode.Height))
	if err != nil {
		ready <- fmt.Errorf("sdl: %w", err)
		return
	}
	defer texture.Destroy()
	ready <- nil

	present := func(frame *image.RGBA) error {
		if err := texture.Update(nil, frame.Pix, frame.Stride); err != nil {
			return err
		}
		if err := renderer.Copy(texture, nil, nil); err != nil {
			return err
		}
		renderer.Present()
		return nil
	}

	quit := false
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case r := <-w.frames:
			r.done <- present(r.frame)
		case done := <-w.stop:
			done <- nil
			return
		case <-tick.C:
			for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
				if _, ok := ev.(*sdl.QuitEvent); ok && !quit {
					quit = true
					w.log.Debugf("window closed")
					w.onQuit()
				}
			}
		}
	}
}

// Mode implements compositor.Output.
func (w *Window) Mode() compositor.ModeInfo {
	return w.mode
}

// Underlay implements compositor.Output. The window starts out black.
func (w *Window) Underlay() image.Image {
	return nil
}

// Present implements compositor.Output.
func (w *Window) Present(frame *image.RGBA) error {
	done := make(chan error)
	w.frames <- request{frame: frame, done: done}
	return <-done
}

// Close implements compositor.Output.
func (w *Window) Close() error {
	done := make(chan error)
	w.stop <- done
	return <-done
}
