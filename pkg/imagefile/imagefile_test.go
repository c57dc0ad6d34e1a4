// Copyright 2019 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagefile

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.Set(2, 3, color.NRGBA{R: 0xFF, A: 0xFF})
	img.Set(4, 4, color.NRGBA{B: 0xFF, A: 0x80})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch c {
	case None:
		return data
	case Gzip:
		w = pgzip.NewWriter(&buf)
	case XZ:
		w, err = xz.NewWriter(&buf)
		require.NoError(t, err)
	case LZ4:
		w = lz4.NewWriter(&buf)
	}
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodeCompressed(t *testing.T) {
	raw := encodePNG(t)
	for _, c := range []Compression{None, Gzip, XZ, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			data := compress(t, c, raw)
			require.Equal(t, c, Sniff(bufio.NewReader(bytes.NewReader(data))))

			img, err := Decode(bytes.NewReader(data))
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
			require.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, img.RGBAAt(0, 0))
			require.Equal(t, color.RGBA{B: 0x80, A: 0x80}, img.RGBAAt(2, 1))
			require.Equal(t, color.RGBA{}, img.RGBAAt(1, 1))
		})
	}
}

func TestDecodeNotPNG(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("GIF89a not a png")))
	require.Error(t, err)

	_, err = Decode(bytes.NewReader(compress(t, Gzip, []byte("still not a png"))))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "splash.png.xz")
	require.NoError(t, os.WriteFile(p, compress(t, XZ, encodePNG(t)), 0o644))

	img, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())

	_, err = Load(filepath.Join(dir, "missing.png"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), bad)
}

func TestToRGBAKeepsRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.Same(t, img, ToRGBA(img))
}
