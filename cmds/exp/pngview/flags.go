// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/u-root/pngview/pkg/layer"
)

// errUsage means the usage text has been printed and the program should
// exit with a failure status.
var errUsage = errors.New("usage")

// colourFlag lets pflag parse an RGBA4444 colour.
type colourFlag struct {
	c *layer.RGBA4444
}

func (f colourFlag) String() string {
	if f.c == nil {
		return ""
	}
	return f.c.String()
}

func (f colourFlag) Set(s string) error {
	v, err := layer.ParseRGBA4444(s)
	if err != nil {
		return err
	}
	*f.c = v
	return nil
}

func (colourFlag) Type() string { return "RGBA" }

func usage(w io.Writer, program string, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s ", program)
	fmt.Fprintf(w, "[-b <RGBA>] [-d <number>] [-l <layer>] ")
	fmt.Fprintf(w, "[-x <offset>] [-y <offset>] <file.png>\n")
	fmt.Fprintf(w, "    -b - set background colour 16 bit RGBA\n")
	fmt.Fprintf(w, "         e.g. 0x000F is opaque black\n")
	fmt.Fprintf(w, "    -d - display number\n")
	fmt.Fprintf(w, "    -l - layer number\n")
	fmt.Fprintf(w, "    -x - offset (pixels from the left)\n")
	fmt.Fprintf(w, "    -y - offset (pixels from the top)\n")
	fmt.Fprintf(w, "\nAll options:\n%s", fs.FlagUsages())
	fmt.Fprintf(w, "\nOnce shown, send \"x,y\" lines on stdin to centre the image at x,y.\n")
}

// parseArgs builds the Config from a config file, if any, and the flags.
// Flags given on the command line win over the file.
func parseArgs(program string, args []string, stderr io.Writer) (*Config, error) {
	var (
		flags      = defaultConfig()
		configFile string
		x, y       int32
		timeout    time.Duration
	)
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, program, fs) }

	fs.VarP(colourFlag{&flags.Background}, "background", "b", "background colour, 16 bit RGBA; 0 disables the background")
	fs.Uint32VarP(&flags.Display, "display", "d", flags.Display, "display number, /dev/fb<number> for the fb backend")
	fs.Int32VarP(&flags.Layer, "layer", "l", flags.Layer, "layer number of the image")
	fs.Int32VarP(&x, "x", "x", 0, "offset in pixels from the left (default centred)")
	fs.Int32VarP(&y, "y", "y", 0, "offset in pixels from the top (default centred)")
	fs.StringVarP(&configFile, "config", "c", "", "JSON configuration file")
	fs.StringVar(&flags.Backend, "backend", flags.Backend, "output backend: "+strings.Join(backendNames(), ", "))
	fs.StringVar(&flags.Mode, "mode", flags.Mode, "display size for the null and sdl backends")
	fs.DurationVar(&timeout, "open-timeout", 0, "keep retrying to open the display for this long")
	fs.BoolVarP(&flags.Watch, "watch", "w", false, "reload the image when the file changes")
	fs.BoolVar(&flags.ExitOnEOF, "exit-on-eof", false, "exit when stdin is closed instead of waiting for a signal")
	fs.BoolVar(&flags.Debug, "debug", false, "print additional debug output")
	fs.BoolVar(&flags.KLog, "klog", false, "print output to all attached consoles via the kernel log")

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
		}
		return nil, errUsage
	}
	if fs.NArg() < 1 && configFile == "" {
		fs.Usage()
		return nil, errUsage
	}

	cfg := &flags
	if configFile != "" {
		var err error
		if cfg, err = loadConfig(configFile); err != nil {
			return nil, err
		}
		override := func(name string, apply func()) {
			if fs.Changed(name) {
				apply()
			}
		}
		override("background", func() { cfg.Background = flags.Background })
		override("display", func() { cfg.Display = flags.Display })
		override("layer", func() { cfg.Layer = flags.Layer })
		override("backend", func() { cfg.Backend = flags.Backend })
		override("mode", func() { cfg.Mode = flags.Mode })
		override("watch", func() { cfg.Watch = flags.Watch })
		override("exit-on-eof", func() { cfg.ExitOnEOF = flags.ExitOnEOF })
		override("debug", func() { cfg.Debug = flags.Debug })
		override("klog", func() { cfg.KLog = flags.KLog })
	}
	if fs.Changed("x") {
		cfg.X = &x
	}
	if fs.Changed("y") {
		cfg.Y = &y
	}
	if fs.Changed("open-timeout") {
		cfg.OpenTimeout = duration(timeout)
	}
	if fs.NArg() > 0 {
		cfg.Image = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
