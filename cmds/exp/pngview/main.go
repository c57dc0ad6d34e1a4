// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pngview shows a PNG on a display and moves it around.
//
// Synopsis:
//     pngview [-b RGBA] [-d NUMBER] [-l LAYER] [-x OFFSET] [-y OFFSET] [OPTIONS] FILE.png
//
// Description:
//     The image is shown centred, or at the given offsets, over an optional
//     solid background covering the whole display. While it runs, each
//     "x,y" line read from stdin moves the centre of the image to x,y.
//     pngview exits on SIGINT or SIGTERM and leaves the display as it
//     found it.
//
//     The file may be compressed with gzip, xz or lz4.
//
// Options:
//     -b: background colour, 16 bit RGBA, 0 disables the background
//     -d: display number
//     -l: layer number of the image
//     -x: offset in pixels from the left
//     -y: offset in pixels from the top
//     -c: JSON configuration file
//     -w: reload the image when the file changes
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/u-root/pngview/pkg/ulog"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const prompt = "> "

func main() {
	cfg, err := parseArgs(filepath.Base(os.Args[0]), os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "pngview: %v\n", err)
		}
		os.Exit(1)
	}

	l, err := ulog.New(ulog.Options{Name: "pngview", Debug: cfg.Debug, KernelLog: cfg.KLog})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pngview: logging: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync()
	logger = l

	if err := mainErr(cfg); err != nil {
		l.Errorf("%v", err)
		l.Sync()
		os.Exit(1)
	}
}

func mainErr(cfg *Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer cancel()

	out, err := backends[cfg.Backend](cfg, cancel)
	if err != nil {
		return fmt.Errorf("unable to open %s display %d: %w", cfg.Backend, cfg.Display, err)
	}

	s := session{out: out, in: os.Stdin, stdout: os.Stdout}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		s.prompt = prompt
	}
	return run(ctx, cfg, s)
}
