// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/u-root/pngview/pkg/layer"
)

func TestParseArgsDefaults(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs("pngview", []string{"pic.png"}, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stderr.String())

	want := defaultConfig()
	want.Image = "pic.png"
	assert.Equal(t, &want, cfg)
	assert.Nil(t, cfg.X)
	assert.Nil(t, cfg.Y)
}

func TestParseArgs(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs("pngview", []string{
		"-b", "0x1234", "-d", "2", "-l", "3", "-y", "7",
		"--backend", "null", "--mode", "20x10", "--open-timeout", "3s",
		"-w", "--exit-on-eof", "--debug", "pic.png",
	}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, layer.RGBA4444(0x1234), cfg.Background)
	assert.Equal(t, uint32(2), cfg.Display)
	assert.Equal(t, int32(3), cfg.Layer)
	assert.Nil(t, cfg.X)
	require.NotNil(t, cfg.Y)
	assert.Equal(t, int32(7), *cfg.Y)
	assert.Equal(t, "null", cfg.Backend)
	assert.Equal(t, "20x10", cfg.Mode)
	assert.Equal(t, 3*time.Second, time.Duration(cfg.OpenTimeout))
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.ExitOnEOF)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.KLog)
}

func TestParseArgsZeroOffsetIsExplicit(t *testing.T) {
	cfg, err := parseArgs("pngview", []string{"-x", "0", "pic.png"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, cfg.X)
	assert.Equal(t, int32(0), *cfg.X)
}

func TestParseArgsNoBackground(t *testing.T) {
	cfg, err := parseArgs("pngview", []string{"-b", "0", "pic.png"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, layer.RGBA4444(0), cfg.Background)
}

func TestParseArgsConfigFile(t *testing.T) {
	cfg, err := parseArgs("pngview", []string{"-c", "testdata/pngview.json", "-l", "7"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, int32(7), cfg.Layer)
	assert.Equal(t, layer.RGBA4444(0x0F0F), cfg.Background)
	assert.Equal(t, uint32(1), cfg.Display)
	require.NotNil(t, cfg.X)
	assert.Equal(t, int32(10), *cfg.X)
	assert.Equal(t, "splash.png", cfg.Image)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.OpenTimeout))

	cfg, err = parseArgs("pngview", []string{
		"--config", "testdata/pngview.json", "-x", "3", "-b", "0x000F", "other.png",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "other.png", cfg.Image)
	assert.Equal(t, int32(3), *cfg.X)
	assert.Equal(t, layer.RGBA4444(0x000F), cfg.Background)
	assert.Equal(t, int32(5), cfg.Layer)
}

func TestParseArgsUsage(t *testing.T) {
	for _, tt := range []struct {
		name   string
		args   []string
		stderr string
	}{
		{name: "no args", args: nil, stderr: "Usage: pngview"},
		{name: "help", args: []string{"-h"}, stderr: "Usage: pngview"},
		{name: "bad colour", args: []string{"-b", "red", "pic.png"}, stderr: "invalid argument"},
		{name: "bad layer", args: []string{"-l", "top", "pic.png"}, stderr: "Usage: pngview"},
		{name: "unknown flag", args: []string{"--fullscreen", "pic.png"}, stderr: "unknown flag"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseArgs("pngview", tt.args, &stderr)
			assert.ErrorIs(t, err, errUsage)
			assert.Contains(t, stderr.String(), tt.stderr)
		})
	}
}

func TestParseArgsInvalid(t *testing.T) {
	_, err := parseArgs("pngview", []string{"--backend", "vga", "pic.png"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)

	_, err = parseArgs("pngview", []string{"-c", "testdata/invalid.json"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}
