package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JimBoonie/gridcrop/internal/imageio"
	"github.com/JimBoonie/gridcrop/internal/manifest"
	"github.com/JimBoonie/gridcrop/internal/pipeline"
)

var mergeCmd = &cobra.Command{
	Use:   "merge DIR",
	Short: "Recombine a tile directory into a single image",
	Long: `Recombine the tiles of a split directory into a single image.

DIR is a directory containing a manifest.json written by gridcrop
split, or a path to the manifest itself. Where tile footprints overlap,
pixels are combined with the blend operator: tiles fold into the output
one at a time, each blending against what earlier tiles left behind.

Blends: average (default), and, or. Tile sets split with --binary also
accept xor. Unknown blend names warn and revert to average.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringP("blend", "b", "average", "blend operator for overlapping pixels (average|and|or|xor)")
	mergeCmd.Flags().Bool("binary", false, "validate tiles as binary masks before merging")
	mergeCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	mergeCmd.Flags().StringP("format", "f", "png", "output format (png|tiff)")

	viper.BindPFlag("merge.blend", mergeCmd.Flags().Lookup("blend"))
	viper.BindPFlag("merge.binary", mergeCmd.Flags().Lookup("binary"))
	viper.BindPFlag("merge.output", mergeCmd.Flags().Lookup("output"))
	viper.BindPFlag("merge.format", mergeCmd.Flags().Lookup("format"))
}

func runMerge(cmd *cobra.Command, args []string) error {
	format, err := imageio.ParseFormat(viper.GetString("merge.format"))
	if err != nil {
		return err
	}

	manifestPath := args[0]
	if info, err := os.Stat(manifestPath); err == nil && info.IsDir() {
		manifestPath = filepath.Join(manifestPath, manifest.Filename)
	}

	merger := pipeline.NewMerger(&pipeline.MergeOptions{
		Blend:  viper.GetString("merge.blend"),
		Binary: viper.GetBool("merge.binary"),
		Output: viper.GetString("merge.output"),
		Format: format,
	})

	return merger.MergeManifest(manifestPath)
}
