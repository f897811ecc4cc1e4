package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studydeck",
	Short: "Keyboard-driven study sessions in the terminal",
	Long: "Studydeck is a terminal client for study sessions. Step through planned blocks,\n" +
		"mark them covered, and generate multiple-choice questions per block.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("server", "", "Session server base URL (overrides STUDYDECK_SERVER)")
	pf.String("db", "", "Path to the journal database (overrides STUDYDECK_DB)")
	pf.String("config", "", "Path to the YAML config file (overrides STUDYDECK_CONFIG)")
	pf.Duration("timeout", 0, "Per-request timeout (overrides STUDYDECK_TIMEOUT)")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
