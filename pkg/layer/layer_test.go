// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/u-root/pngview/pkg/compositor"
)

func TestParseRGBA4444(t *testing.T) {
	for in, want := range map[string]RGBA4444{
		"0x000F": 0x000F,
		"000f":   0x000F,
		"0XF00F": 0xF00F,
		"0":      0,
		" 8F8F ": 0x8F8F,
	} {
		got, err := ParseRGBA4444(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "0x", "xyz", "0x10000"} {
		_, err := ParseRGBA4444(in)
		require.Error(t, err, in)
	}
}

func TestRGBA4444Channels(t *testing.T) {
	require.Equal(t, color.NRGBA{A: 0xFF}, RGBA4444(0x000F).NRGBA())
	require.Equal(t, color.NRGBA{R: 0xFF, G: 0x88, B: 0x11, A: 0x77}, RGBA4444(0xF817).NRGBA())
	require.Equal(t, "0x000F", RGBA4444(0xF).String())
}

func TestRGBA4444JSON(t *testing.T) {
	var v struct {
		A RGBA4444 `json:"a"`
		B RGBA4444 `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "0xF00F", "b": 15}`), &v))
	require.Equal(t, RGBA4444(0xF00F), v.A)
	require.Equal(t, RGBA4444(0x000F), v.B)
	require.Error(t, json.Unmarshal([]byte(`{"a": "nope"}`), &v))

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"a": "0xF00F", "b": "0x000F"}`, string(out))
}

func testImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func display(t *testing.T, w, h int) (*compositor.Display, *compositor.Null) {
	t.Helper()
	out := compositor.NewNull(compositor.ModeInfo{Width: w, Height: h}, nil)
	d, err := compositor.Open(out, nil)
	require.NoError(t, err)
	return d, out
}

func submit(t *testing.T, d *compositor.Display, f func(u *compositor.Update) error) {
	t.Helper()
	u, err := d.Start()
	require.NoError(t, err)
	require.NoError(t, f(u))
	require.NoError(t, u.Submit())
}

func TestBackgroundAndImage(t *testing.T) {
	d, out := display(t, 10, 8)

	bg, err := NewBackground(0xF00F, 0)
	require.NoError(t, err)
	require.Equal(t, RGBA4444(0xF00F), bg.Colour())
	img, err := NewImage(testImage(4, 2, color.RGBA{G: 0xFF, A: 0xFF}), 1)
	require.NoError(t, err)
	require.Equal(t, image.Pt(4, 2), img.Size())
	require.Equal(t, "4x2 image on layer 1 (32 B)", img.String())

	pos := img.Centred(d.Info())
	require.Equal(t, image.Pt(3, 3), pos)

	submit(t, d, func(u *compositor.Update) error {
		if err := bg.AddElement(d, u); err != nil {
			return err
		}
		return img.AddElementOffset(pos.X, pos.Y, d, u)
	})
	f := out.Last()
	require.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, f.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{G: 0xFF, A: 0xFF}, f.RGBAAt(3, 3))
	require.Equal(t, color.RGBA{G: 0xFF, A: 0xFF}, f.RGBAAt(6, 4))
	require.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, f.RGBAAt(7, 4))

	// Adding twice is refused.
	u, err := d.Start()
	require.NoError(t, err)
	require.Error(t, bg.AddElement(d, u))
	require.Error(t, img.AddElementOffset(0, 0, d, u))

	require.NoError(t, bg.Destroy(d))
	require.NoError(t, img.Destroy(d))
	require.Equal(t, 0, d.Elements())
	require.Equal(t, color.RGBA{A: 0xFF}, out.Last().RGBAAt(3, 3))
}

func TestMoveCentre(t *testing.T) {
	d, out := display(t, 10, 10)
	img, err := NewImage(testImage(3, 3, color.RGBA{B: 0xFF, A: 0xFF}), 1)
	require.NoError(t, err)

	u, err := d.Start()
	require.NoError(t, err)
	require.Error(t, img.Move(1, 1, u))

	submit(t, d, func(u *compositor.Update) error {
		return img.AddElementOffset(0, 0, d, u)
	})
	submit(t, d, func(u *compositor.Update) error {
		return img.MoveCentre(5, 5, u)
	})
	require.Equal(t, image.Pt(4, 4), img.Position())
	f := out.Last()
	require.Equal(t, color.RGBA{A: 0xFF}, f.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{B: 0xFF, A: 0xFF}, f.RGBAAt(4, 4))
	require.Equal(t, color.RGBA{B: 0xFF, A: 0xFF}, f.RGBAAt(6, 6))
	require.Equal(t, color.RGBA{A: 0xFF}, f.RGBAAt(7, 7))

	// Partly off the top-left corner.
	submit(t, d, func(u *compositor.Update) error {
		return img.MoveCentre(0, 0, u)
	})
	require.Equal(t, image.Pt(-1, -1), img.Position())
	require.Equal(t, color.RGBA{B: 0xFF, A: 0xFF}, out.Last().RGBAAt(1, 1))
	require.Equal(t, color.RGBA{A: 0xFF}, out.Last().RGBAAt(2, 2))
}

func TestReplace(t *testing.T) {
	d, out := display(t, 6, 6)
	img, err := NewImage(testImage(2, 2, color.RGBA{R: 0xFF, A: 0xFF}), 1)
	require.NoError(t, err)
	submit(t, d, func(u *compositor.Update) error {
		return img.AddElementOffset(1, 1, d, u)
	})

	var old *compositor.Resource
	submit(t, d, func(u *compositor.Update) error {
		var err error
		old, err = img.Replace(testImage(4, 4, color.RGBA{G: 0xFF, A: 0xFF}), u)
		return err
	})
	require.NoError(t, old.Delete())
	require.Equal(t, image.Pt(4, 4), img.Size())
	require.Equal(t, image.Pt(1, 1), img.Position())
	require.Equal(t, color.RGBA{G: 0xFF, A: 0xFF}, out.Last().RGBAAt(4, 4))
}

func TestMoveCentreAtInt32Limits(t *testing.T) {
	d, out := display(t, 10, 10)
	img, err := NewImage(testImage(4, 2, color.RGBA{B: 0xFF, A: 0xFF}), 1)
	require.NoError(t, err)
	submit(t, d, func(u *compositor.Update) error {
		return img.AddElementOffset(math.MaxInt32, math.MinInt32, d, u)
	})
	require.Equal(t, image.Pt(maxOffset, -maxOffset), img.Position())

	for _, p := range []image.Point{
		{math.MaxInt32, 0},
		{math.MinInt32, 0},
		{0, math.MaxInt32},
		{math.MinInt32, math.MinInt32},
	} {
		submit(t, d, func(u *compositor.Update) error {
			return img.MoveCentre(p.X, p.Y, u)
		})
		pos := img.Position()
		require.True(t, pos.X >= -maxOffset && pos.X <= maxOffset, "%v", pos)
		require.True(t, pos.Y >= -maxOffset && pos.Y <= maxOffset, "%v", pos)
		require.Equal(t, color.RGBA{A: 0xFF}, out.Last().RGBAAt(5, 5))
	}

	submit(t, d, func(u *compositor.Update) error {
		return img.MoveCentre(5, 5, u)
	})
	require.Equal(t, image.Pt(3, 4), img.Position())
	require.Equal(t, color.RGBA{B: 0xFF, A: 0xFF}, out.Last().RGBAAt(5, 5))
}

func TestReplaceFailureKeepsResource(t *testing.T) {
	d, out := display(t, 6, 6)
	img, err := NewImage(testImage(2, 2, color.RGBA{R: 0xFF, A: 0xFF}), 1)
	require.NoError(t, err)
	submit(t, d, func(u *compositor.Update) error {
		return img.AddElementOffset(1, 1, d, u)
	})

	u, err := d.Start()
	require.NoError(t, err)
	require.NoError(t, u.Submit())
	old, err := img.Replace(testImage(4, 4, color.RGBA{G: 0xFF, A: 0xFF}), u)
	require.Error(t, err)
	require.Nil(t, old)
	require.Equal(t, image.Pt(2, 2), img.Size())

	submit(t, d, func(u *compositor.Update) error {
		return img.Move(2, 2, u)
	})
	require.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, out.Last().RGBAAt(3, 3))
	require.NoError(t, img.Destroy(d))
}
