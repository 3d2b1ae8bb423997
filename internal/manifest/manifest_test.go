package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	m := &Manifest{
		Source:      "photo.png",
		Mode:        "gray",
		ImageWidth:  10,
		ImageHeight: 10,
		TileWidth:   4,
		TileHeight:  4,
		StrideX:     4,
		StrideY:     4,
		Tiles: []Tile{
			{File: "tile_0000.png", X: 0, Y: 0, Width: 4, Height: 4},
			{File: "tile_0001.png", X: 0, Y: 4, Width: 4, Height: 4},
		},
	}

	path := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, Write(path, m))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), Filename))
	require.Error(t, err)
}
