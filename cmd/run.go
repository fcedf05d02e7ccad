package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/app"
	"github.com/khalidw/harfiz/internal/audio"
	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/llm"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/screens/home"
	"github.com/khalidw/harfiz/internal/screens/welcome"
	"github.com/khalidw/harfiz/internal/store"
)

// appDeps holds everything the TUI needs, built once per invocation.
type appDeps struct {
	store   *store.Store
	events  store.EventRepo
	rewards *rewards.Service
	buffer  *prefetch.Buffer
	player  *audio.Player
	target  int
}

// buildDeps opens the store and assembles the exercise pipeline. A
// missing LLM provider is not fatal: the app starts with practice
// locked and says why.
func buildDeps(cmd *cobra.Command) (*appDeps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	target, _ := cmd.Flags().GetInt("target")
	queueSize, _ := cmd.Flags().GetInt("buffer")

	d := &appDeps{
		store:  st,
		events: st.EventRepo(),
		target: target,
	}
	d.rewards = rewards.NewService(d.events, st.SnapshotRepo())

	provider, err := llm.NewProviderFromEnv(ctx, d.events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Practice is locked until an API key is set.")
	} else {
		var media prefetch.MediaLoader
		if dir, err := store.DefaultAudioDir(); err == nil {
			media = audio.NewLoader(dir)
		} else {
			fmt.Fprintln(os.Stderr, "Audio cache unavailable:", err)
		}
		d.buffer = prefetch.New(prefetch.Config{
			Source:    exercise.NewLLMSource(provider, exercise.DefaultConfig()),
			Media:     media,
			QueueSize: queueSize,
		})
	}

	// No player found means silent practice; the session screen drops
	// its listen hint.
	if player, err := audio.NewPlayer(); err == nil {
		d.player = player
	}

	return d, nil
}

func (d *appDeps) close() {
	if d.buffer != nil {
		d.buffer.Close()
	}
	_ = d.store.Close()
}

func (d *appDeps) homeScreen() screen.Screen {
	return home.New(d.buffer, d.rewards, d.events, d.player, d.target)
}

// statsFunc feeds the header its star total and unlocked level.
func (d *appDeps) statsFunc() app.StatsFunc {
	return func() (int, int) {
		p, err := d.rewards.Progress(context.Background())
		if err != nil {
			return 0, exercise.MinLevel
		}
		return p.TotalStars, p.HighestUnlocked
	}
}

// runApp builds dependencies and launches the TUI, with or without the
// welcome splash.
func runApp(cmd *cobra.Command, splash bool) error {
	deps, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer deps.close()

	root := deps.homeScreen()
	if splash {
		root = welcome.New(deps.homeScreen)
	}
	return app.Run(root, deps.statsFunc())
}
