package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/llm"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated exercises for a level (no database)",
	Long: `Generate and interactively answer exercises for a specific level.

This is a stateless developer tool — no database, no progress tracking, no events.
Useful for evaluating exercise quality and tuning level prompts.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("level", 1, "Difficulty level (1-5)")
	previewCmd.Flags().Int("count", 5, "Number of exercises to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	levelVal, _ := cmd.Flags().GetInt("level")
	count, _ := cmd.Flags().GetInt("count")

	lv := exercise.LevelFor(levelVal)

	// Create LLM provider (no EventRepo — logging skipped).
	ctx := context.Background()
	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	source := exercise.NewLLMSource(provider, exercise.DefaultConfig())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Level %d — %s\n", lv.Number, lv.Title)
	fmt.Printf("Generating %d exercises...\n\n", count)

	var correct int
	var excluded []string

	for i := 1; i <= count; i++ {
		item, err := source.Generate(ctx, lv.Number, excluded)
		if err != nil {
			fmt.Printf("Exercise %d: generation failed: %v\n\n", i, err)
			continue
		}

		excluded = append(excluded, item.Answer())

		fmt.Printf("── Exercise %d/%d [%s] ──\n", i, count, item.Kind)
		fmt.Println(item.Prompt)
		for j, opt := range item.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		fmt.Print("\nYour answer (1-4): ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		choice, err := strconv.Atoi(answer)
		if err != nil || choice < 1 || choice > len(item.Options) {
			fmt.Print("(not a valid option)\n\n")
			continue
		}

		if item.IsCorrect(choice - 1) {
			correct++
			fmt.Printf("\033[32m✓ Correct!\033[0m %s\n", item.Transliteration)
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s (%s)\n", item.Answer(), item.Transliteration)
		}

		if item.Explanation != "" {
			fmt.Printf("Explanation: %s\n", item.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, count)
	return nil
}
