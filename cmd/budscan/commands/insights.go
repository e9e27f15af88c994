package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	budscan "github.com/anatolykoptev/go-budscan"
)

var insightsText string

var insightsCmd = &cobra.Command{
	Use:   "insights [file]",
	Short: "Mine packaging metadata from label text",
	Long: `Parse OCR label text into structured packaging metadata (potency, terpenes,
compliance fields, warnings, strain name guess) and print it as JSON.

Examples:
  budscan insights --text "THC 24.5% CBD 0.8% Myrcene 1.2%"
  budscan insights label.txt
  tesseract photo.jpg - | budscan insights -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := insightsText
		if len(args) == 1 {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			text = string(data)
		}
		if text == "" {
			return fmt.Errorf("provide label text with --text or a file argument")
		}
		return printJSON(cmd.OutOrStdout(), budscan.MineLabel(text))
	},
}

func init() {
	insightsCmd.Flags().StringVar(&insightsText, "text", "", "label text")
	rootCmd.AddCommand(insightsCmd)
}
