package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "harfiz",
	Short: "AI Arabic reading trainer",
	Long: "Harfiz — AI-native terminal app for learning to read Arabic script,\n" +
		"from the alphabet to short vocalized sentences.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Explicit opt-in file for API keys; absence is the normal case.
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HARFIZ_DB env var)")
	rootCmd.PersistentFlags().Int("target", prefetch.DefaultTargetCorrect, "Correct answers needed to finish a session")
	rootCmd.PersistentFlags().Int("buffer", prefetch.DefaultQueueSize, "Exercises kept prepared ahead of the one on display")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HARFIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
