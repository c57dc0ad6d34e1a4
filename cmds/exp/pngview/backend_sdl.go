// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sdl
// +build sdl

package main

import (
	"context"
	"fmt"

	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/sdlwin"
)

func init() {
	backends["sdl"] = openWindow
}

func openWindow(cfg *Config, cancel context.CancelFunc) (compositor.Output, error) {
	mode, err := parseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	w, err := sdlwin.Open(fmt.Sprintf("pngview: %s", cfg.Image), mode, cancel, logger)
	if err != nil {
		return nil, err
	}
	return w, nil
}
