package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	budscan "github.com/anatolykoptev/go-budscan"
)

var (
	matchCatalog string
	matchBundle  string
	matchFull    bool
)

var matchCmd = &cobra.Command{
	Use:   "match --catalog <file> --bundle <file>",
	Short: "Rank catalog entries against an annotation bundle",
	Long: `Rank catalog entries against one annotation bundle and print the result as JSON.
The bundle may be JSON or YAML; use '-' to read it from stdin.

Examples:
  budscan match --catalog strains.yaml --bundle scan.json
  cat scan.json | budscan match --catalog strains.yaml --bundle -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchCatalog == "" || matchBundle == "" {
			return fmt.Errorf("flags --catalog and --bundle are required")
		}

		entries, err := budscan.LoadCatalogFile(matchCatalog)
		if err != nil {
			return err
		}

		data, err := readInput(matchBundle)
		if err != nil {
			return err
		}
		var bundle budscan.AnnotationBundle
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return fmt.Errorf("decode bundle: %w", err)
		}

		res := budscan.MatchStrainByVisuals(bundle, entries)
		if matchFull {
			return printJSON(cmd.OutOrStdout(), res)
		}
		return printJSON(cmd.OutOrStdout(), res.Report())
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchCatalog, "catalog", "", "catalog file (YAML or JSON)")
	matchCmd.Flags().StringVar(&matchBundle, "bundle", "", "annotation bundle file (use '-' for stdin)")
	matchCmd.Flags().BoolVar(&matchFull, "full", false, "print the full result including score breakdowns")
	rootCmd.AddCommand(matchCmd)
}
