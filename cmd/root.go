package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mathlingo/mathlingo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathlingo",
	Short: "Adaptive AI math quiz server",
	Long:  "MathLingo serves adaptive math practice: LLM-generated problems, answer grading, drawing transcription and topic chat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHLINGO_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then MATHLINGO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
