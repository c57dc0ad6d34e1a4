// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
)

// maxLine is the longest command accepted, not counting the line end.
const maxLine = 19

// separators split the two coordinates of a command.
const separators = " :;,"

var errLineTooLong = fmt.Errorf("line longer than %d characters", maxLine)

// lineReader reads commands one line at a time. Lines longer than
// maxLine are consumed entirely and reported as errLineTooLong.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) next() (string, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := l.r.ReadLine()
		if err != nil {
			return "", err
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLine {
				tooLong = true
				line = nil
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return string(line), nil
}

// parsePosition reads "x,y". Either coordinate may be followed by
// garbage, as in "100px, 20px"; the separators are any of " :;,".
func parsePosition(line string) (image.Point, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	if len(fields) < 2 {
		return image.Point{}, fmt.Errorf("want \"x,y\", got %q", line)
	}
	x, err := leadingInt(fields[0])
	if err != nil {
		return image.Point{}, err
	}
	y, err := leadingInt(fields[1])
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(x, y), nil
}

// leadingInt parses the optional sign and decimal digits at the start
// of s, ignoring whatever follows them.
func leadingInt(s string) (int, error) {
	t := strings.TrimLeft(s, "\t\n\v\f\r")
	end := 0
	if end < len(t) && (t[end] == '+' || t[end] == '-') {
		end++
	}
	digits := end
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	v, err := strconv.ParseInt(t[:end], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return int(v), nil
}

// command is one line of input, parsed.
type command struct {
	line string
	pos  image.Point
	err  error
}

// readCommands feeds parsed lines from r until EOF, a read error or ctx
// is done. The channel is closed when reading stops. prompt, if set, is
// written to w before every line.
func readCommands(ctx context.Context, r io.Reader, prompt string, w io.Writer) <-chan command {
	ch := make(chan command)
	go func() {
		defer close(ch)
		lr := newLineReader(r)
		for {
			if prompt != "" {
				fmt.Fprint(w, prompt)
			}
			line, err := lr.next()
			if errors.Is(err, io.EOF) {
				return
			}
			var c command
			switch {
			case errors.Is(err, errLineTooLong):
				c = command{err: err}
			case err != nil:
				warn("reading input: %v", err)
				return
			default:
				c.line = line
				c.pos, c.err = parsePosition(line)
			}
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
