package montage

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSheetGeometry(t *testing.T) {
	imgs := []image.Image{
		solid(16, 16, color.RGBA{R: 255, A: 255}),
		solid(16, 16, color.RGBA{G: 255, A: 255}),
		solid(16, 16, color.RGBA{B: 255, A: 255}),
	}

	out, err := Sheet(imgs, 2, 16, 16)
	require.NoError(t, err)
	// Three images in two columns: two rows.
	require.Equal(t, 32, out.Bounds().Dx())
	require.Equal(t, 32, out.Bounds().Dy())

	// Cell centers carry the source colors.
	require.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(8, 8))
	require.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(24, 8))
	require.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(8, 24))
	// The fourth cell stays background white.
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(24, 24))
}

func TestSheetScalesDown(t *testing.T) {
	imgs := []image.Image{solid(64, 64, color.RGBA{R: 255, A: 255})}

	out, err := Sheet(imgs, 1, 16, 16)
	require.NoError(t, err)
	require.Equal(t, 16, out.Bounds().Dx())
	require.Equal(t, 16, out.Bounds().Dy())
	require.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(8, 8))
}

func TestPairedSheetInterleavesRows(t *testing.T) {
	top := []image.Image{
		solid(8, 8, color.RGBA{R: 255, A: 255}),
		solid(8, 8, color.RGBA{R: 255, A: 255}),
	}
	bottom := []image.Image{
		solid(8, 8, color.RGBA{B: 255, A: 255}),
		solid(8, 8, color.RGBA{B: 255, A: 255}),
	}

	out, err := PairedSheet(top, bottom, 2, 8, 8)
	require.NoError(t, err)
	require.Equal(t, 16, out.Bounds().Dx())
	require.Equal(t, 16, out.Bounds().Dy())

	require.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(4, 4))
	require.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(4, 12))
	require.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(12, 4))
	require.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(12, 12))
}

func TestSheetErrors(t *testing.T) {
	_, err := Sheet(nil, 2, 16, 16)
	require.Error(t, err)

	_, err = Sheet([]image.Image{solid(4, 4, color.RGBA{A: 255})}, 0, 16, 16)
	require.Error(t, err)

	_, err = PairedSheet(
		[]image.Image{solid(4, 4, color.RGBA{A: 255})},
		nil, 1, 16, 16)
	require.Error(t, err)
}
