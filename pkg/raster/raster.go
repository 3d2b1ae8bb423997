package raster

import "fmt"

// Mode identifies the pixel representation of a Raster.
type Mode int

const (
	// Gray holds integer samples, nominally in 0-255.
	Gray Mode = iota
	// Binary holds samples restricted to 0 and 1.
	Binary
)

func (m Mode) String() string {
	switch m {
	case Gray:
		return "gray"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a mode name to its Mode value.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "gray":
		return Gray, nil
	case "binary":
		return Binary, nil
	}
	return Gray, fmt.Errorf("unknown raster mode %q", name)
}

// Raster is a single-channel grid of integer samples.
type Raster struct {
	Mode   Mode
	Width  int
	Height int
	Pix    []int // row-major, len = Width*Height
}

// New returns an all-zero raster of the given size.
func New(mode Mode, width, height int) *Raster {
	return &Raster{
		Mode:   mode,
		Width:  width,
		Height: height,
		Pix:    make([]int, width*height),
	}
}

// At returns the sample at (x, y).
func (r *Raster) At(x, y int) int {
	return r.Pix[y*r.Width+x]
}

// Set stores the sample at (x, y).
func (r *Raster) Set(x, y, v int) {
	r.Pix[y*r.Width+x] = v
}

// Crop copies the w-by-h region with top-left corner (x, y) into a new
// raster. The region must lie fully inside r; Crop never pads.
func (r *Raster) Crop(x, y, w, h int) *Raster {
	out := New(r.Mode, w, h)
	for row := 0; row < h; row++ {
		src := r.Pix[(y+row)*r.Width+x : (y+row)*r.Width+x+w]
		copy(out.Pix[row*w:(row+1)*w], src)
	}
	return out
}

// Clone returns an independent copy of r.
func (r *Raster) Clone() *Raster {
	out := New(r.Mode, r.Width, r.Height)
	copy(out.Pix, r.Pix)
	return out
}

// Binarize returns a Binary raster where samples >= threshold become 1.
func (r *Raster) Binarize(threshold int) *Raster {
	out := New(Binary, r.Width, r.Height)
	for i, v := range r.Pix {
		if v >= threshold {
			out.Pix[i] = 1
		}
	}
	return out
}
