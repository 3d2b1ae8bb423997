// Package montage composes contact sheets: thumbnails of many images
// laid out on a fixed grid of equally sized cells.
package montage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// Sheet lays thumbnails out on a cols-wide grid, one cell per image,
// filling rows left to right. Images are scaled down to fit their cell
// with the aspect ratio preserved and centered on a white background.
func Sheet(imgs []image.Image, cols, cellW, cellH int) (*image.RGBA, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("no images to lay out")
	}
	if cols <= 0 || cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("invalid sheet geometry: cols=%d cell=%dx%d", cols, cellW, cellH)
	}

	rows := (len(imgs) + cols - 1) / cols
	out := newSheet(cols*cellW, rows*cellH)

	for i, img := range imgs {
		placeCell(out, img, (i%cols)*cellW, (i/cols)*cellH, cellW, cellH)
	}
	return out, nil
}

// PairedSheet interleaves two image lists row by row: each image of
// imgs sits directly above its counterpart in pairs. Useful for eyeing
// tiles next to their processed versions.
func PairedSheet(imgs, pairs []image.Image, cols, cellW, cellH int) (*image.RGBA, error) {
	if len(imgs) != len(pairs) {
		return nil, fmt.Errorf("image lists differ in length: %d vs %d", len(imgs), len(pairs))
	}
	if len(imgs) == 0 {
		return nil, fmt.Errorf("no images to lay out")
	}
	if cols <= 0 || cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("invalid sheet geometry: cols=%d cell=%dx%d", cols, cellW, cellH)
	}

	rows := (len(imgs) + cols - 1) / cols
	out := newSheet(cols*cellW, rows*2*cellH)

	for i := range imgs {
		col := (i % cols) * cellW
		row := (i / cols) * 2 * cellH
		placeCell(out, imgs[i], col, row, cellW, cellH)
		placeCell(out, pairs[i], col, row+cellH, cellW, cellH)
	}
	return out, nil
}

func newSheet(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return out
}

func placeCell(dst *image.RGBA, img image.Image, cellX, cellY, cellW, cellH int) {
	thumb := resize.Thumbnail(uint(cellW), uint(cellH), img, resize.Bilinear)
	b := thumb.Bounds()
	offX := cellX + (cellW-b.Dx())/2
	offY := cellY + (cellH-b.Dy())/2
	draw.Draw(dst, image.Rect(offX, offY, offX+b.Dx(), offY+b.Dy()), thumb, b.Min, draw.Src)
}
