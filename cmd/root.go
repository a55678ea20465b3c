package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "reproducible-assessment",
	Short:        "Reproducible paper generation and grading service",
	Long:         "Freezes question banks into content-addressed versions, generates replayable papers, grades submissions and drives practice on isomorphic questions.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "Storage driver: postgres, mysql or memory (overrides DATABASE_DRIVER)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(paperCmd)
}
