// Package manifest reads and writes the JSON description of a tile set
// that the split pipeline leaves next to the tile files.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Filename is the manifest file written into each tile directory.
const Filename = "manifest.json"

// Tile records one cropped tile of a split image.
type Tile struct {
	File   string `json:"file"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Manifest describes a tile set written by the split pipeline.
type Manifest struct {
	Source      string `json:"source"`
	Mode        string `json:"mode"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
	TileWidth   int    `json:"tile_width"`
	TileHeight  int    `json:"tile_height"`
	StrideX     int    `json:"stride_x"`
	StrideY     int    `json:"stride_y"`
	Tiles       []Tile `json:"tiles"`
}

// Write saves the manifest as indented JSON.
func Write(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Read loads a manifest written by Write.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("can't parse manifest %s: %v", path, err)
	}
	return &m, nil
}
