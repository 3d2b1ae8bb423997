// Package imageio decodes and encodes the image files surrounding the
// tiling core: the grid packages only see rasters, while all format
// handling lives here.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/tiff"

	"github.com/JimBoonie/gridcrop/pkg/raster"
)

// Output format constants
const (
	FormatPNG = iota
	FormatTIFF
)

// ParseFormat maps a format name to its constant.
func ParseFormat(name string) (int, error) {
	switch name {
	case "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("unknown output format: %s", name)
}

// Decode detects the image format from its magic bytes and decodes
// PNG, JPEG or TIFF data.
func Decode(data []byte) (image.Image, error) {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x89, 0x50, 0x4E, 0x47}):
		return png.Decode(bytes.NewReader(data))
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xD8}):
		return jpeg.Decode(bytes.NewReader(data))
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte{0x49, 0x49, 0x2A, 0x00}) ||
		bytes.Equal(data[:4], []byte{0x4D, 0x4D, 0x00, 0x2A})):
		return tiff.Decode(bytes.NewReader(data))
	}

	return nil, fmt.Errorf("unrecognized image format")
}

// ToGray converts a decoded image into a gray raster.
func ToGray(img image.Image) *raster.Raster {
	bounds := img.Bounds()
	out := raster.New(raster.Gray, bounds.Dx(), bounds.Dy())

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			out.Set(x, y, int(g.Y))
		}
	}

	return out
}

// ToImage converts a raster back into an 8-bit grayscale image.
// Binary samples are scaled to full range so the output is viewable;
// gray samples are clamped to 0-255.
func ToImage(r *raster.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			v := r.At(x, y)
			if r.Mode == raster.Binary {
				v *= 255
			}
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	return img
}

// Encode writes img in the given output format.
func Encode(w io.Writer, img image.Image, format int) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unknown output format %d", format)
}

// EncodePNG encodes img as PNG into a byte slice.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadRaster reads an image file and converts it to a gray raster.
func LoadRaster(path string) (*raster.Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("can't decode %s: %v", path, err)
	}
	return ToGray(img), nil
}

// WriteImage writes img to filename, or to stdout when filename is
// empty.
func WriteImage(filename string, img image.Image, format int) error {
	var output io.Writer

	if filename == "" {
		output = os.Stdout
	} else {
		file, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer file.Close()
		output = file
	}

	return Encode(output, img, format)
}
