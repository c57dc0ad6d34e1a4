// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/u-root/pngview/pkg/compositor"
	"github.com/u-root/pngview/pkg/layer"
)

// duration is a time.Duration written as "5s" in JSON.
type duration time.Duration

func (d *duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %s", data)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

func (d duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is everything pngview needs to run. It is filled from an
// optional JSON file first, then from the command line.
type Config struct {
	Background  layer.RGBA4444 `json:"background"`
	Display     uint32         `json:"display"`
	Layer       int32          `json:"layer"`
	X           *int32         `json:"x,omitempty"`
	Y           *int32         `json:"y,omitempty"`
	Backend     string         `json:"backend"`
	Mode        string         `json:"mode"`
	OpenTimeout duration       `json:"open_timeout"`
	Watch       bool           `json:"watch"`
	ExitOnEOF   bool           `json:"exit_on_eof"`
	Debug       bool           `json:"debug"`
	KLog        bool           `json:"klog"`
	Image       string         `json:"image"`
}

// defaultConfig matches the behaviour of running with no flags at all.
func defaultConfig() Config {
	return Config{
		Background: 0x000F,
		Layer:      1,
		Backend:    "fb",
		Mode:       "1920x1080",
	}
}

// loadConfig parses a JSON config file on top of the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read file %s due to: %v", path, err)
	}
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse data - invalid configuration in %s: %v", path, err)
	}
	return &cfg, nil
}

// Validate checks the config before anything is opened.
func (c *Config) Validate() error {
	if c.Image == "" {
		return errors.New("missing image file")
	}
	if _, ok := backends[c.Backend]; !ok {
		return fmt.Errorf("unknown backend %q, have %s", c.Backend, strings.Join(backendNames(), ", "))
	}
	if c.OpenTimeout < 0 {
		return fmt.Errorf("negative open timeout %v", time.Duration(c.OpenTimeout))
	}
	if _, err := parseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

// parseMode reads a WIDTHxHEIGHT size.
func parseMode(s string) (compositor.ModeInfo, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return compositor.ModeInfo{}, fmt.Errorf("invalid mode %q, want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w <= 0 {
		return compositor.ModeInfo{}, fmt.Errorf("invalid mode %q, want WIDTHxHEIGHT", s)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h <= 0 {
		return compositor.ModeInfo{}, fmt.Errorf("invalid mode %q, want WIDTHxHEIGHT", s)
	}
	return compositor.ModeInfo{Width: w, Height: h}, nil
}
