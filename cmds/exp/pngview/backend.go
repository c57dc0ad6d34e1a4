// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"sort"
	"time"

	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/fb"
)

// openFunc opens the output a Config asks for. cancel stops the program,
// for outputs the user can close.
type openFunc func(cfg *Config, cancel context.CancelFunc) (compositor.Output, error)

var backends = map[string]openFunc{
	"fb":   openFramebuffer,
	"null": openNull,
}

func backendNames() []string {
	var names []string
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func openFramebuffer(cfg *Config, _ context.CancelFunc) (compositor.Output, error) {
	d, err := fb.Open(fb.Path(cfg.Display), fb.Options{
		Timeout: time.Duration(cfg.OpenTimeout),
		Log:     logger,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func openNull(cfg *Config, _ context.CancelFunc) (compositor.Output, error) {
	mode, err := parseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return compositor.NewNull(mode, nil), nil
}
