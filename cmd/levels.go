package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/exercise"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level ladder",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lv := range exercise.Levels() {
			kinds := make([]string, len(lv.Kinds))
			for i, k := range lv.Kinds {
				kinds[i] = string(k)
			}
			fmt.Printf("Level %d — %s  [%s]\n", lv.Number, lv.Title, strings.Join(kinds, ", "))
			fmt.Printf("  %s\n\n", lv.Focus)
		}
	},
}
