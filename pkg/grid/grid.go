// Package grid splits a raster into a deterministic set of same-size
// tiles and recombines tile sets into a single raster.
//
// Tile placements advance by a fixed stride along each axis. Because
// the raster dimensions are usually not exact multiples of the stride,
// an extra "flush" row and column of placements can be added at the
// far edges so the tiles cover the whole raster; those flush tiles
// overlap their neighbors. Recombination folds tiles back into one
// output buffer with a choice of pixel blend operators.
package grid

import (
	"errors"
	"fmt"

	"github.com/JimBoonie/gridcrop/pkg/raster"
)

// ErrInvalidDimensions is returned when a tile size or stride cannot
// produce a valid tiling of the raster.
var ErrInvalidDimensions = errors.New("invalid tiling dimensions")

// Size is a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// Corner is the top-left placement of a tile within its parent raster.
type Corner struct {
	X int
	Y int
}

// Tile pairs a cropped raster with the corner it was taken from.
type Tile struct {
	Raster *raster.Raster
	Corner Corner
}

// Corners returns the ordered tile placements covering a dims-sized
// raster.
//
// Regular offsets advance by the stride and stop strictly before
// dims - tileSize. When includeExcess is true, the flush offset
// dims - tileSize is appended so the last row and column of tiles end
// exactly at the raster edge. A zero-valued stride defaults to the
// tile size (non-overlapping tiling). Placements are ordered outer-x,
// inner-y.
func Corners(dims, tileSize, stride Size, includeExcess bool) ([]Corner, error) {
	if stride == (Size{}) {
		stride = tileSize
	}
	if tileSize.W <= 0 || tileSize.H <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d must be positive", ErrInvalidDimensions, tileSize.W, tileSize.H)
	}
	if stride.W <= 0 || stride.H <= 0 {
		return nil, fmt.Errorf("%w: stride %dx%d must be positive", ErrInvalidDimensions, stride.W, stride.H)
	}
	if tileSize.W > dims.W || tileSize.H > dims.H {
		return nil, fmt.Errorf("%w: tile size %dx%d exceeds raster %dx%d", ErrInvalidDimensions, tileSize.W, tileSize.H, dims.W, dims.H)
	}

	xs := offsets(dims.W, tileSize.W, stride.W, includeExcess)
	ys := offsets(dims.H, tileSize.H, stride.H, includeExcess)

	corners := make([]Corner, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			corners = append(corners, Corner{X: x, Y: y})
		}
	}
	return corners, nil
}

// offsets generates the placement offsets along one axis. The loop
// bound is strictly less than size-tile, so the flush offset is never
// produced by the regular progression.
func offsets(size, tile, stride int, includeExcess bool) []int {
	offs := []int{}
	for off := 0; off < size-tile; off += stride {
		offs = append(offs, off)
	}
	if includeExcess {
		flush := size - tile
		if len(offs) == 0 || offs[len(offs)-1] != flush {
			offs = append(offs, flush)
		}
	}
	return offs
}

// Generate crops src at every placement of the tiling. Every returned
// tile is exactly tileSize; the placement construction guarantees the
// crops stay in bounds.
func Generate(src *raster.Raster, tileSize, stride Size, includeExcess bool) ([]Tile, error) {
	corners, err := Corners(Size{W: src.Width, H: src.Height}, tileSize, stride, includeExcess)
	if err != nil {
		return nil, err
	}
	tiles := make([]Tile, 0, len(corners))
	for _, c := range corners {
		tiles = append(tiles, Tile{
			Raster: src.Crop(c.X, c.Y, tileSize.W, tileSize.H),
			Corner: c,
		})
	}
	return tiles, nil
}
