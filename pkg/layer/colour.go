// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGBA4444 is a 16 bit colour, one nibble per channel, red in the top
// nibble and alpha in the bottom one. 0x000F is opaque black.
type RGBA4444 uint16

// ParseRGBA4444 parses a hexadecimal colour, with or without 0x prefix.
func ParseRGBA4444(s string) (RGBA4444, error) {
	s = strings.TrimSpace(s)
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(h, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid RGBA colour %q: %w", s, err)
	}
	return RGBA4444(v), nil
}

// RGBA implements color.Color.
func (c RGBA4444) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA widens every nibble to 8 bits.
func (c RGBA4444) NRGBA() color.NRGBA {
	n := func(shift uint) uint8 {
		return uint8((c>>shift)&0xF) * 0x11
	}
	return color.NRGBA{R: n(12), G: n(8), B: n(4), A: n(0)}
}

func (c RGBA4444) String() string {
	return fmt.Sprintf("0x%04X", uint16(c))
}

// MarshalJSON writes the colour as a hex string.
func (c RGBA4444) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a hex string or a plain number.
func (c *RGBA4444) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var v uint16
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid RGBA colour %s", data)
		}
		*c = RGBA4444(v)
		return nil
	}
	v, err := ParseRGBA4444(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
