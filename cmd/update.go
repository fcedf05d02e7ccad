package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khalidw/harfiz/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update harfiz to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		targetVersion, _ := cmd.Flags().GetString("version")

		if checkOnly {
			checker := selfupdate.NewChecker()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			result, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if errors.Is(err, selfupdate.ErrDevBuild) {
				fmt.Println("Development build; no release version to compare against.")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.UpdateAvailable {
				fmt.Println("Already running the latest version.")
				return nil
			}
			fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
			fmt.Println("Release notes:", result.ReleaseURL)
			fmt.Println("Run `harfiz update` to install it.")
			return nil
		}

		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  targetVersion,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo harfiz update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Check for a newer version without installing")
	updateCmd.Flags().String("version", "", "Install a specific release (e.g. v1.2.0) instead of the latest")
}
