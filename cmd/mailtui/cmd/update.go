package cmd

import (
	"fmt"

	"github.com/mailtui/mailtui/internal/update"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer mailtui release exists",
	Long: `Check GitHub for a newer mailtui release.

This only reports; it never modifies the installed binary. Dev builds are
compared against the latest official release.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking for the latest release...")

		info, err := update.CheckForUpdate(cmd.Context(), Version, true)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}

		if info == nil {
			fmt.Printf("mailtui %s is up to date.\n", Version)
			return nil
		}

		if info.IsDevBuild {
			fmt.Printf("You are on a dev build (%s); the latest release is %s.\n",
				info.CurrentVersion, info.LatestVersion)
		} else {
			fmt.Printf("mailtui %s is available (you have %s).\n",
				info.LatestVersion, info.CurrentVersion)
		}
		if info.DownloadURL != "" {
			fmt.Printf("Download %s (%s) from:\n  %s\n",
				info.AssetName, update.FormatSize(info.Size), info.DownloadURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
