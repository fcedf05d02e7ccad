package cmd

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/app"
	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screens/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start practicing, skipping the welcome screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		if level == 0 {
			return runApp(cmd, false)
		}

		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer deps.close()

		if deps.buffer == nil {
			return fmt.Errorf("cannot start a session without an LLM provider")
		}

		level = exercise.LevelFor(level).Number
		if p, err := deps.rewards.Progress(context.Background()); err == nil && level > p.HighestUnlocked {
			fmt.Fprintf(os.Stderr, "Level %d is still locked; starting level %d.\n", level, p.HighestUnlocked)
			level = p.HighestUnlocked
		}

		// Home stays underneath so quitting the session lands somewhere.
		boot := func() tea.Msg {
			return router.PushScreenMsg{
				Screen: session.New(deps.buffer, deps.rewards, deps.events, deps.player, level, deps.target),
			}
		}
		return app.Run(deps.homeScreen(), deps.statsFunc(), boot)
	},
}

func init() {
	playCmd.Flags().Int("level", 0, "Jump straight into a session at this level")
}
