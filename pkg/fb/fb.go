// Copyright 2019-2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fb shows composed frames on a Linux framebuffer device.
package fb

import (
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/orangecms/go-framebuffer/framebuffer"
	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/ulog"
	"golang.org/x/sys/unix"
)

// Path returns the device node of framebuffer n.
func Path(n uint32) string {
	return fmt.Sprintf("/dev/fb%d", n)
}

// Ioctl numbers from linux/fb.h.
const (
	fbioBlank      = 0x4611
	fbBlankUnblank = 0
)

// Device is a framebuffer used as a compositor.Output. It remembers what
// was on screen when it was opened, shows that beneath every frame and
// puts it back on Close.
type Device struct {
	path   string
	format Format
	f      *os.File
	saved  []byte
	under  *image.RGBA
	buf    []byte
	log    ulog.Logger
}

var _ compositor.Output = (*Device)(nil)

// Options tune Open.
type Options struct {
	// Timeout keeps retrying a device that is not there yet, e.g. while
	// the driver is still probing. Zero tries once.
	Timeout time.Duration
	Log     ulog.Logger
}

func queryFormat(path string) (Format, error) {
	fbo, err := framebuffer.Init(path)
	if err != nil {
		return Format{}, err
	}
	width, height := fbo.Size()
	return Format{
		Width:  width,
		Height: height,
		Stride: fbo.Stride(),
		Bpp:    fbo.Bpp(),
	}, nil
}

// Open queries the framebuffer at path and takes a snapshot of it.
func Open(path string, o Options) (*Device, error) {
	log := o.Log
	if log == nil {
		log = ulog.Null
	}

	var format Format
	query := func() error {
		var err error
		format, err = queryFormat(path)
		if err != nil {
			log.Debugf("framebuffer %s: %v", path, err)
		}
		return err
	}
	var err error
	if o.Timeout > 0 {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = o.Timeout
		err = backoff.Retry(query, b)
	} else {
		err = query()
	}
	if err != nil {
		return nil, fmt.Errorf("framebuffer %s: %w", path, err)
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("framebuffer %s: %w", path, err)
	}
	log.Infof("Framebuffer %s: %v", path, format)
	return openFormat(path, format, log)
}

// openFormat opens path as a framebuffer laid out as format.
func openFormat(path string, format Format, log ulog.Logger) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("framebuffer %s: %w", path, err)
	}
	d := &Device{
		path:   path,
		format: format,
		f:      f,
		buf:    make([]byte, format.Size()),
		log:    log,
	}
	if err := d.unblank(); err != nil {
		log.Debugf("unblank %s: %v", path, err)
	}
	d.saved = make([]byte, format.Size())
	if _, err := io.ReadFull(f, d.saved); err != nil {
		log.Warnf("cannot save %s contents, restoring to black: %v", path, err)
		d.saved = make([]byte, format.Size())
	}
	d.under = format.Decode(d.saved)
	log.Debugf("saved %s of %s", humanize.IBytes(uint64(len(d.saved))), path)
	return d, nil
}

func (d *Device) unblank() error {
	return unix.IoctlSetInt(int(d.f.Fd()), fbioBlank, fbBlankUnblank)
}

// Format returns the framebuffer layout.
func (d *Device) Format() Format {
	return d.format
}

// Mode implements compositor.Output.
func (d *Device) Mode() compositor.ModeInfo {
	return compositor.ModeInfo{Width: d.format.Width, Height: d.format.Height}
}

// Underlay implements compositor.Output and returns the screen as it was
// when the device was opened.
func (d *Device) Underlay() image.Image {
	return d.under
}

// Present implements compositor.Output.
func (d *Device) Present(frame *image.RGBA) error {
	d.format.Encode(d.buf, frame)
	return d.write(d.buf)
}

func (d *Device) write(buf []byte) error {
	if _, err := d.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("Error writing to framebuffer: %w", err)
	}
	return nil
}

// Close puts back what was on screen before and closes the device.
func (d *Device) Close() error {
	err := d.write(d.saved)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}
