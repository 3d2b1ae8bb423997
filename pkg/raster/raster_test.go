package raster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrop(t *testing.T) {
	r := New(Gray, 4, 3)
	for i := range r.Pix {
		r.Pix[i] = i
	}

	c := r.Crop(1, 1, 2, 2)
	require.Equal(t, 2, c.Width)
	require.Equal(t, 2, c.Height)
	require.Equal(t, []int{5, 6, 9, 10}, c.Pix)

	// Crop copies; mutating the crop must not touch the parent.
	c.Set(0, 0, 99)
	require.Equal(t, 5, r.At(1, 1))
}

func TestClone(t *testing.T) {
	r := New(Binary, 2, 2)
	r.Set(1, 1, 1)

	c := r.Clone()
	require.Equal(t, r.Pix, c.Pix)
	require.Equal(t, Binary, c.Mode)

	c.Set(0, 0, 1)
	require.Equal(t, 0, r.At(0, 0))
}

func TestBinarize(t *testing.T) {
	r := New(Gray, 2, 2)
	r.Pix = []int{0, 127, 128, 255}

	b := r.Binarize(128)
	require.Equal(t, Binary, b.Mode)
	require.Equal(t, []int{0, 0, 1, 1}, b.Pix)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("binary")
	require.NoError(t, err)
	require.Equal(t, Binary, m)

	_, err = ParseMode("cmyk")
	require.Error(t, err)
}
