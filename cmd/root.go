package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridcrop",
	Short: "Split images into grids of tiles and stitch tile sets back together",
	Long: `gridcrop splits a raster image into a deterministic grid of tiles and
recombines tile sets into a single image.

Tiles are placed every stride pixels. When the image dimensions are not
exact multiples of the stride, an extra flush row and column of tiles
is added at the right/bottom edge so the whole image is covered; those
tiles overlap their neighbors. Overlapping regions are recombined with
a pixel blend operator: average, and, or (plus xor for binary masks).

Examples:
  # Split an image into 256x256 tiles
  gridcrop split photo.png --tile-width 256 --tile-height 256 -o tiles/

  # Overlapping tiles: 256px tiles every 192px
  gridcrop split photo.png --tile-width 256 --tile-height 256 --stride-x 192 --stride-y 192 -o tiles/

  # Recombine a tile directory, averaging overlaps
  gridcrop merge tiles/ -b average -o restored.png

  # Threshold to a binary mask, split, then recombine with xor
  gridcrop split mask.png --tile-width 64 --tile-height 64 --binary -o masks/
  gridcrop merge masks/ -b xor -o mask.png

  # Contact sheet of a tile directory
  gridcrop montage tiles/ --cols 4 -o sheet.png

  # Start HTTP server
  gridcrop serve --port 8080`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gridcrop.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gridcrop" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gridcrop")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
