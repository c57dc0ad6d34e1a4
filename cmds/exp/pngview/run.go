// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/imagefile"
	"github.com/u-root/pngview/pkg/layer"
)

// backgroundLayer is where the background goes, below any image layer
// that is not negative.
const backgroundLayer = 0

// reloadDelay lets a file being written settle before it is decoded.
const reloadDelay = 100 * time.Millisecond

// session is what run needs besides the Config.
type session struct {
	out    compositor.Output
	in     io.Reader
	prompt string
	stdout io.Writer
}

// viewer owns the display and both layers.
type viewer struct {
	cfg *Config
	d   *compositor.Display
	bg  *layer.Background
	img *layer.Image
}

// run shows the image and follows position commands until ctx is done,
// or until input ends when cfg.ExitOnEOF is set. The output is closed
// before run returns.
func run(ctx context.Context, cfg *Config, s session) (err error) {
	d, err := compositor.Open(s.out, logger)
	if err != nil {
		s.out.Close()
		return err
	}
	v := &viewer{cfg: cfg, d: d}
	defer func() {
		if terr := v.teardown(); err == nil {
			err = terr
		}
	}()

	debug("config: %s", spew.Sdump(cfg))
	debug("display: %v", d.Info())

	if err := v.show(); err != nil {
		return err
	}

	var changes <-chan struct{}
	if cfg.Watch {
		fw, err := watchFile(cfg.Image)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Image, err)
		}
		defer fw.Close()
		changes = fw.Changes()
	}

	cmds := readCommands(ctx, s.in, s.prompt, s.stdout)
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			debug("stopping: %v", ctx.Err())
			return nil

		case c, ok := <-cmds:
			if !ok {
				if cfg.ExitOnEOF {
					debug("input closed, exiting")
					return nil
				}
				info("input closed, waiting for a signal")
				cmds = nil
				continue
			}
			if err := v.handle(c); err != nil {
				return err
			}

		case <-changes:
			settle = time.After(reloadDelay)

		case <-settle:
			settle = nil
			if err := v.reload(); err != nil {
				return err
			}
		}
	}
}

// show builds both layers and puts them on the display in one update.
func (v *viewer) show() error {
	cfg := v.cfg
	if cfg.Background != 0 {
		bg, err := layer.NewBackground(cfg.Background, backgroundLayer)
		if err != nil {
			return err
		}
		v.bg = bg
	}

	pic, err := imagefile.Load(cfg.Image)
	if err != nil {
		return fmt.Errorf("unable to load %s: %w", cfg.Image, err)
	}
	img, err := layer.NewImage(pic, cfg.Layer)
	if err != nil {
		return err
	}

	u, err := v.d.Start()
	if err != nil {
		return err
	}
	if v.bg != nil {
		if err := v.bg.AddElement(v.d, u); err != nil {
			return err
		}
		debug("background %v on layer %d", cfg.Background, backgroundLayer)
	}

	pos := img.Centred(v.d.Info())
	if cfg.X != nil {
		pos.X = int(*cfg.X)
	}
	if cfg.Y != nil {
		pos.Y = int(*cfg.Y)
	}
	if err := img.AddElementOffset(pos.X, pos.Y, v.d, u); err != nil {
		return err
	}
	v.img = img
	if err := u.Submit(); err != nil {
		return err
	}
	info("showing %s: %v at %v", cfg.Image, img, pos)
	return nil
}

// handle applies one input line. Bad lines are reported and skipped.
func (v *viewer) handle(c command) error {
	switch {
	case c.err == errLineTooLong:
		warn("ignoring input: %v", c.err)
		return nil
	case strings.TrimSpace(c.line) == "":
		return nil
	case c.err != nil:
		warn("ignoring input: %v", c.err)
		return nil
	}

	u, err := v.d.Start()
	if err != nil {
		return err
	}
	if err := v.img.MoveCentre(c.pos.X, c.pos.Y, u); err != nil {
		warn("ignoring move to %v: %v", c.pos, err)
		return nil
	}
	if err := u.Submit(); err != nil {
		return err
	}
	debug("centre at %v, top-left %v", c.pos, v.img.Position())
	return nil
}

// reload decodes the image file again and swaps it in. A file that does
// not decode, for instance because it is still being written, is skipped.
func (v *viewer) reload() error {
	pic, err := imagefile.Load(v.cfg.Image)
	if err != nil {
		warn("reload: %v", err)
		return nil
	}
	u, err := v.d.Start()
	if err != nil {
		return err
	}
	old, err := v.img.Replace(pic, u)
	if err != nil {
		return err
	}
	if err := u.Submit(); err != nil {
		return err
	}
	info("reloaded %s: %v", v.cfg.Image, v.img)
	return old.Delete()
}

// teardown removes the layers and closes the display.
func (v *viewer) teardown() error {
	var errs []error
	if v.bg != nil {
		errs = append(errs, v.bg.Destroy(v.d))
	}
	if v.img != nil {
		errs = append(errs, v.img.Destroy(v.d))
	}
	errs = append(errs, v.d.Close())
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
