package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsync/skillsync/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update skillsync to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("version")
		checkOnly, _ := cmd.Flags().GetBool("check")

		checker := selfupdate.NewChecker()
		ctx := cmd.Context()

		if checkOnly {
			result, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if err != nil {
				return err
			}
			if !result.UpdateAvailable {
				fmt.Println("Already up to date:", version)
				return nil
			}
			fmt.Printf("Update available: %s -> %s\n%s\n", version, result.LatestVersion, result.ReleaseURL)
			return nil
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already up to date:", version)
			return nil
		}
		if errors.Is(err, selfupdate.ErrDevBuild) {
			return errors.New("cannot update a development build; install a released binary first")
		}
		return err
	},
}

func init() {
	updateCmd.Flags().String("version", "", "Update to a specific release tag instead of the latest")
	updateCmd.Flags().Bool("check", false, "Only check whether an update is available")
	rootCmd.AddCommand(updateCmd)
}
