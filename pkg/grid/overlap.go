package grid

import (
	"sort"

	flatbush "github.com/bmharper/flatbush-go"
)

// Overlaps returns the index pairs of tiles whose footprints intersect
// with positive area. Each pair is reported once, lower index first,
// sorted for stable output.
func Overlaps(tiles []Tile) [][2]int {
	fb := flatbush.NewFlatbush64()
	fb.Reserve(len(tiles))
	for _, t := range tiles {
		fb.Add(float64(t.Corner.X), float64(t.Corner.Y),
			float64(t.Corner.X+t.Raster.Width), float64(t.Corner.Y+t.Raster.Height))
	}
	fb.Finish()

	pairs := [][2]int{}
	nearby := []int{}
	for i, t := range tiles {
		x1 := float64(t.Corner.X)
		y1 := float64(t.Corner.Y)
		x2 := x1 + float64(t.Raster.Width)
		y2 := y1 + float64(t.Raster.Height)
		nearby = fb.SearchFast(x1, y1, x2, y2, nearby)
		for _, j := range nearby {
			if j <= i {
				continue
			}
			// The index also matches boxes that merely share an edge;
			// require a real intersection.
			o := tiles[j]
			if t.Corner.X+t.Raster.Width > o.Corner.X &&
				o.Corner.X+o.Raster.Width > t.Corner.X &&
				t.Corner.Y+t.Raster.Height > o.Corner.Y &&
				o.Corner.Y+o.Raster.Height > t.Corner.Y {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	return pairs
}
