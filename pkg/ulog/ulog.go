// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ulog provides the logger used by pngview and its libraries.
package ulog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// KernelLogPath is where log lines go when kernel logging is requested.
const KernelLogPath = "/dev/kmsg"

// Logger is the subset of zap.SugaredLogger the libraries need.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Null discards everything.
var Null Logger = nullLogger{}

type nullLogger struct{}

func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Warnf(string, ...interface{})  {}

// Options selects the log level and destination.
type Options struct {
	Name  string
	Debug bool
	// KernelLog sends output to KernelLogPath instead of stderr.
	KernelLog bool
}

// New builds a console logger writing plain lines, like log.Printf would.
func New(o Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if o.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}
	out := "stderr"
	if o.KernelLog {
		out = KernelLogPath
	}
	cfg := zap.Config{
		Level:             level,
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "msg",
			LevelKey:    "level",
			NameKey:     "name",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			EncodeName:  zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{"stderr"},
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if o.Name != "" {
		l = l.Named(o.Name)
	}
	return l.Sugar(), nil
}
