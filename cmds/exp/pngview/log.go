// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/u-root/pngview/pkg/ulog"

// logger is replaced in main once the flags are known.
var logger ulog.Logger = ulog.Null

func debug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

func info(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func warn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}
