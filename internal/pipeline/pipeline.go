// Package pipeline connects image files to the tiling core: it loads
// an image, splits it into tiles on disk, and recombines a tile
// directory back into a single image. The server uses the in-memory
// entry points, the CLI the file-backed ones.
package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/JimBoonie/gridcrop/internal/imageio"
	"github.com/JimBoonie/gridcrop/internal/manifest"
	"github.com/JimBoonie/gridcrop/pkg/grid"
	"github.com/JimBoonie/gridcrop/pkg/raster"
)

// DefaultThreshold separates dark from light samples when an image is
// binarized before splitting or after loading binary tiles.
const DefaultThreshold = 128

// SplitOptions configures the split pipeline.
type SplitOptions struct {
	TileWidth     int
	TileHeight    int
	StrideX       int // zero defaults to TileWidth
	StrideY       int // zero defaults to TileHeight
	IncludeExcess bool
	Binary        bool // threshold the image before splitting
	Threshold     int
	OutDir        string
	Prefix        string
}

// SplitResult reports what a split produced.
type SplitResult struct {
	Manifest *manifest.Manifest
	Tiles    []grid.Tile
	Overlaps int // number of overlapping tile pairs
}

// Splitter runs the split pipeline.
type Splitter struct {
	opts *SplitOptions
}

// NewSplitter creates a splitter, filling in option defaults.
func NewSplitter(opts *SplitOptions) *Splitter {
	if opts.Prefix == "" {
		opts.Prefix = "tile"
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Splitter{opts: opts}
}

// SplitRaster splits an in-memory raster into tiles. No files are
// written; manifest entries carry geometry but no file names.
func (s *Splitter) SplitRaster(src *raster.Raster, source string) (*SplitResult, error) {
	if s.opts.Binary && src.Mode != raster.Binary {
		src = src.Binarize(s.opts.Threshold)
	}

	tileSize := grid.Size{W: s.opts.TileWidth, H: s.opts.TileHeight}
	stride := grid.Size{W: s.opts.StrideX, H: s.opts.StrideY}
	if stride.W == 0 {
		stride.W = tileSize.W
	}
	if stride.H == 0 {
		stride.H = tileSize.H
	}

	tiles, err := grid.Generate(src, tileSize, stride, s.opts.IncludeExcess)
	if err != nil {
		return nil, err
	}

	man := &manifest.Manifest{
		Source:      source,
		Mode:        src.Mode.String(),
		ImageWidth:  src.Width,
		ImageHeight: src.Height,
		TileWidth:   tileSize.W,
		TileHeight:  tileSize.H,
		StrideX:     stride.W,
		StrideY:     stride.H,
		Tiles:       make([]manifest.Tile, len(tiles)),
	}
	for i, tile := range tiles {
		man.Tiles[i] = manifest.Tile{
			X:      tile.Corner.X,
			Y:      tile.Corner.Y,
			Width:  tile.Raster.Width,
			Height: tile.Raster.Height,
		}
	}

	return &SplitResult{
		Manifest: man,
		Tiles:    tiles,
		Overlaps: len(grid.Overlaps(tiles)),
	}, nil
}

// SplitFile loads an image, splits it and writes the tiles plus a
// manifest into the output directory.
func (s *Splitter) SplitFile(path string) (*SplitResult, error) {
	src, err := imageio.LoadRaster(path)
	if err != nil {
		return nil, err
	}

	res, err := s.SplitRaster(src, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.opts.OutDir, 0755); err != nil {
		return nil, err
	}

	for i, tile := range res.Tiles {
		name := fmt.Sprintf("%s_%04d.png", s.opts.Prefix, i)
		outPath := filepath.Join(s.opts.OutDir, name)

		progress := float64(i) / float64(len(res.Tiles)) * 100
		fmt.Fprintf(os.Stderr, "%.2f%%: %s\n", progress, outPath)

		if err := imageio.WriteImage(outPath, imageio.ToImage(tile.Raster), imageio.FormatPNG); err != nil {
			return nil, fmt.Errorf("can't write tile %s: %v", outPath, err)
		}
		res.Manifest.Tiles[i].File = name
	}

	manifestPath := filepath.Join(s.opts.OutDir, manifest.Filename)
	if err := manifest.Write(manifestPath, res.Manifest); err != nil {
		return nil, fmt.Errorf("can't write manifest: %v", err)
	}

	fmt.Fprintf(os.Stderr, "==Tiles: %d\n", len(res.Tiles))
	fmt.Fprintf(os.Stderr, "==Overlapping pairs: %d\n", res.Overlaps)
	fmt.Fprintf(os.Stderr, "==Manifest: %s\n", manifestPath)

	return res, nil
}

// MergeOptions configures the merge pipeline.
type MergeOptions struct {
	Blend  string
	Binary bool
	Output string // empty writes to stdout
	Format int
}

// Merger runs the merge pipeline.
type Merger struct {
	opts *MergeOptions
}

// NewMerger creates a merger.
func NewMerger(opts *MergeOptions) *Merger {
	return &Merger{opts: opts}
}

// MergeManifest loads the tiles listed in a manifest and recombines
// them into the configured output file. Tile sets written in binary
// mode are merged with the binary validation path regardless of the
// Binary option.
func (m *Merger) MergeManifest(manifestPath string) error {
	if m.opts.Output == "" {
		if stat, _ := os.Stdout.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			return fmt.Errorf("didn't specify output file and standard output is a terminal")
		}
	}

	man, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}
	if len(man.Tiles) == 0 {
		return grid.ErrEmptyInput
	}

	binary := m.opts.Binary || man.Mode == raster.Binary.String()
	dir := filepath.Dir(manifestPath)

	tiles := make([]grid.Tile, len(man.Tiles))
	for i, mt := range man.Tiles {
		r, err := imageio.LoadRaster(filepath.Join(dir, mt.File))
		if err != nil {
			return err
		}
		if binary {
			// Binary tiles are stored as 0/255 PNGs; bring them back
			// to {0,1} samples.
			r = r.Binarize(DefaultThreshold)
		}
		tiles[i] = grid.Tile{Raster: r, Corner: grid.Corner{X: mt.X, Y: mt.Y}}
	}

	out, err := MergeRasters(tiles, m.opts.Blend, binary)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "==Merged %d tiles into %dx%d (%s blend)\n",
		len(tiles), out.Width, out.Height, m.opts.Blend)

	return imageio.WriteImage(m.opts.Output, imageio.ToImage(out), m.opts.Format)
}

// maxMergePixels bounds the output buffer of a merge. Tile corners
// arrive from manifests and API requests, so a runaway placement must
// not translate into an arbitrarily large allocation.
const maxMergePixels = 10000 * 10000

// MergeRasters combines already-loaded tiles with the named blend.
// Unknown blend names log a warning and revert to average.
func MergeRasters(tiles []grid.Tile, blendName string, binary bool) (*raster.Raster, error) {
	outW, outH := 0, 0
	for _, t := range tiles {
		if w := t.Corner.X + t.Raster.Width; w > outW {
			outW = w
		}
		if h := t.Corner.Y + t.Raster.Height; h > outH {
			outH = h
		}
	}
	if int64(outW)*int64(outH) > maxMergePixels {
		return nil, fmt.Errorf("%w: merged output %dx%d is too big", grid.ErrInvalidDimensions, outW, outH)
	}

	blend, ok := grid.ParseBlend(blendName)
	if !ok {
		log.Printf("pipeline: unknown blend %q, reverting to average", blendName)
	}
	if binary {
		return grid.MergeBinary(tiles, blend)
	}
	return grid.Merge(tiles, blend)
}
