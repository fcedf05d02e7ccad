package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		repo := s.EventRepo()

		byTier, totalStars, err := repo.StarCounts(ctx)
		if err != nil {
			return fmt.Errorf("query stars: %w", err)
		}
		levelStats, err := repo.LevelStats(ctx)
		if err != nil {
			return fmt.Errorf("query level stats: %w", err)
		}

		if totalStars == 0 && len(levelStats) == 0 {
			fmt.Println("No sessions recorded yet. Run `harfiz` to start practicing.")
			return nil
		}

		// Stars earned across all sessions, not just current bests.
		fmt.Println("Stars Earned")
		fmt.Println(strings.Repeat("─", 40))
		for _, tier := range rewards.AllTiers() {
			fmt.Printf("%s %-8s  %4d\n", tier.Icon(), tier.DisplayName(), byTier[string(tier)])
		}
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("  %-8s  %4d\n", "TOTAL", totalStars)

		if len(levelStats) > 0 {
			byLevel := make(map[int]store.LevelStatsRow, len(levelStats))
			for _, row := range levelStats {
				byLevel[row.Level] = row
			}

			fmt.Println()
			fmt.Println("Level Performance")
			fmt.Println(strings.Repeat("─", 72))
			fmt.Printf("%-5s  %-20s  %8s  %8s  %9s  %11s\n",
				"Level", "Title", "Answers", "Correct", "Accuracy", "Completions")
			fmt.Println(strings.Repeat("─", 72))

			for _, lv := range exercise.Levels() {
				row, ok := byLevel[lv.Number]
				if !ok {
					continue
				}
				accuracy := "-"
				if row.Answers > 0 {
					accuracy = fmt.Sprintf("%.0f%%", float64(row.Correct)/float64(row.Answers)*100)
				}
				fmt.Printf("%-5d  %-20s  %8d  %8d  %9s  %11d\n",
					lv.Number, lv.Title, row.Answers, row.Correct, accuracy, row.Completions)
			}
		}

		return nil
	},
}
