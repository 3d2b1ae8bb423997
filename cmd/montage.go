package cmd

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JimBoonie/gridcrop/internal/imageio"
	"github.com/JimBoonie/gridcrop/internal/manifest"
	"github.com/JimBoonie/gridcrop/pkg/montage"
)

var montageCmd = &cobra.Command{
	Use:   "montage DIR",
	Short: "Render a contact sheet of a tile directory",
	Long: `Render the tiles of a split directory as a contact sheet.

Tiles are arranged in their grid positions by default, one cell per
tile, scaled down to the cell size. With --pair-dir a second tile
directory (for example processed masks of the same split) is
interleaved row by row beneath the first.`,
	Args: cobra.ExactArgs(1),
	RunE: runMontage,
}

func init() {
	rootCmd.AddCommand(montageCmd)

	montageCmd.Flags().Int("cols", 0, "columns in the sheet (default: the tile grid's column count)")
	montageCmd.Flags().Int("cell-width", 128, "cell width in pixels")
	montageCmd.Flags().Int("cell-height", 128, "cell height in pixels")
	montageCmd.Flags().String("pair-dir", "", "second tile directory to interleave row by row")
	montageCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	viper.BindPFlag("montage.cols", montageCmd.Flags().Lookup("cols"))
	viper.BindPFlag("montage.cell-width", montageCmd.Flags().Lookup("cell-width"))
	viper.BindPFlag("montage.cell-height", montageCmd.Flags().Lookup("cell-height"))
	viper.BindPFlag("montage.pair-dir", montageCmd.Flags().Lookup("pair-dir"))
	viper.BindPFlag("montage.output", montageCmd.Flags().Lookup("output"))
}

func runMontage(cmd *cobra.Command, args []string) error {
	imgs, cols, err := loadTileImages(args[0])
	if err != nil {
		return err
	}

	if c := viper.GetInt("montage.cols"); c > 0 {
		cols = c
	}
	cellW := viper.GetInt("montage.cell-width")
	cellH := viper.GetInt("montage.cell-height")

	var sheet image.Image
	if pairDir := viper.GetString("montage.pair-dir"); pairDir != "" {
		pairs, _, err := loadTileImages(pairDir)
		if err != nil {
			return err
		}
		sheet, err = montage.PairedSheet(imgs, pairs, cols, cellW, cellH)
		if err != nil {
			return err
		}
	} else {
		sheet, err = montage.Sheet(imgs, cols, cellW, cellH)
		if err != nil {
			return err
		}
	}

	return imageio.WriteImage(viper.GetString("montage.output"), sheet, imageio.FormatPNG)
}

// loadTileImages reads the tiles of a split directory in row-major
// grid order and returns them with the grid's column count.
func loadTileImages(dir string) ([]image.Image, int, error) {
	manifestPath := dir
	if info, err := os.Stat(manifestPath); err == nil && info.IsDir() {
		manifestPath = filepath.Join(manifestPath, manifest.Filename)
	}

	man, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, 0, err
	}
	if len(man.Tiles) == 0 {
		return nil, 0, fmt.Errorf("manifest %s lists no tiles", manifestPath)
	}

	// The generator emits tiles column by column; the sheet fills row
	// by row.
	tiles := append([]manifest.Tile(nil), man.Tiles...)
	sort.SliceStable(tiles, func(i, j int) bool {
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})

	colSet := map[int]bool{}
	for _, t := range tiles {
		colSet[t.X] = true
	}

	baseDir := filepath.Dir(manifestPath)
	imgs := make([]image.Image, len(tiles))
	for i, t := range tiles {
		data, err := os.ReadFile(filepath.Join(baseDir, t.File))
		if err != nil {
			return nil, 0, err
		}
		img, err := imageio.Decode(data)
		if err != nil {
			return nil, 0, fmt.Errorf("can't decode tile %s: %v", t.File, err)
		}
		imgs[i] = img
	}

	return imgs, len(colSet), nil
}
