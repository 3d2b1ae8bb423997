package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JimBoonie/gridcrop/internal/pipeline"
)

var splitCmd = &cobra.Command{
	Use:   "split IMAGE",
	Short: "Split an image into a grid of tiles",
	Long: `Split an image into a grid of equally sized tiles.

The tiles and a manifest.json describing their placements are written
into the output directory. By default an extra flush row and column of
tiles is included at the far edges so the whole image is covered even
when its dimensions are not exact multiples of the stride; pass
--no-excess to drop them.

With --binary the image is thresholded to a 0/1 mask before splitting,
so the tile set can later be recombined with the bitwise blends.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().Int("tile-width", 256, "tile width in pixels")
	splitCmd.Flags().Int("tile-height", 256, "tile height in pixels")
	splitCmd.Flags().Int("stride-x", 0, "horizontal offset between tiles (default: tile width)")
	splitCmd.Flags().Int("stride-y", 0, "vertical offset between tiles (default: tile height)")
	splitCmd.Flags().Bool("no-excess", false, "don't add flush tiles at the right/bottom edges")
	splitCmd.Flags().Bool("binary", false, "threshold the image to a binary mask before splitting")
	splitCmd.Flags().Int("threshold", pipeline.DefaultThreshold, "binarization threshold")
	splitCmd.Flags().StringP("output-dir", "o", "tiles", "directory to write tiles and manifest into")
	splitCmd.Flags().String("prefix", "tile", "tile file name prefix")

	viper.BindPFlag("split.tile-width", splitCmd.Flags().Lookup("tile-width"))
	viper.BindPFlag("split.tile-height", splitCmd.Flags().Lookup("tile-height"))
	viper.BindPFlag("split.stride-x", splitCmd.Flags().Lookup("stride-x"))
	viper.BindPFlag("split.stride-y", splitCmd.Flags().Lookup("stride-y"))
	viper.BindPFlag("split.no-excess", splitCmd.Flags().Lookup("no-excess"))
	viper.BindPFlag("split.binary", splitCmd.Flags().Lookup("binary"))
	viper.BindPFlag("split.threshold", splitCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("split.output-dir", splitCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("split.prefix", splitCmd.Flags().Lookup("prefix"))
}

func runSplit(cmd *cobra.Command, args []string) error {
	tileWidth := viper.GetInt("split.tile-width")
	tileHeight := viper.GetInt("split.tile-height")

	if tileWidth <= 0 || tileHeight <= 0 {
		return fmt.Errorf("tile dimensions must be positive (got %dx%d)", tileWidth, tileHeight)
	}

	splitter := pipeline.NewSplitter(&pipeline.SplitOptions{
		TileWidth:     tileWidth,
		TileHeight:    tileHeight,
		StrideX:       viper.GetInt("split.stride-x"),
		StrideY:       viper.GetInt("split.stride-y"),
		IncludeExcess: !viper.GetBool("split.no-excess"),
		Binary:        viper.GetBool("split.binary"),
		Threshold:     viper.GetInt("split.threshold"),
		OutDir:        viper.GetString("split.output-dir"),
		Prefix:        viper.GetString("split.prefix"),
	})

	_, err := splitter.SplitFile(args[0])
	return err
}
