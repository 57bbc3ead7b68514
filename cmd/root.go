// Package cmd defines and implements the CLI commands for the
// pantone-scraper executable.
package cmd

import "github.com/spf13/cobra"

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantone-scraper",
		Short: "Scrapes the Pantone Formula Guide Coated book into a CSV swatch table.",
		Long: `pantone-scraper walks the public colour finder one page at a time,
extracts every coated colour's name, code, RGB and CMYK values, and writes
them to a single CSV file in catalog order.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML; PANTONE_* env vars override)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point; it reports the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
