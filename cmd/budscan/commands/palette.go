package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	budscan "github.com/anatolykoptev/go-budscan"
)

var paletteCount int

var paletteCmd = &cobra.Command{
	Use:   "palette <photo>",
	Short: "Print the dominant colors of a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		img, format, err := budscan.DecodePhoto(data)
		if err != nil {
			return err
		}
		if verbose {
			b := img.Bounds()
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %dx%d\n", format, b.Dx(), b.Dy())
		}
		for _, s := range budscan.DominantColors(img, paletteCount) {
			fmt.Fprintf(cmd.OutOrStdout(), "#%02x%02x%02x  %5.1f%%  %s\n",
				s.Red, s.Green, s.Blue, s.Coverage*100, budscan.ColorName(s.Red, s.Green, s.Blue))
		}
		return nil
	},
}

func init() {
	paletteCmd.Flags().IntVarP(&paletteCount, "count", "n", 3, "number of swatches")
	rootCmd.AddCommand(paletteCmd)
}
