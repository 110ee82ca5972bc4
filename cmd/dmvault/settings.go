// Settings commands for the dmvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the application settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("show settings", err)
		}
		settings, err := campaigns.Settings()
		if err != nil {
			fail("show settings", err)
		}

		if flagJSON {
			printJSON(settings)
			return nil
		}
		current := "none"
		if settings.CurrentCampaignID != nil {
			current = *settings.CurrentCampaignID
		}
		fmt.Printf("current campaign: %s\n", current)
		fmt.Printf("theme:            %s\n", settings.Theme)
		fmt.Printf("auto backup:      %t (every %d hours)\n", settings.AutoBackup, settings.BackupFrequencyHours)
		fmt.Printf("recent campaigns: %d\n", len(settings.RecentCampaignIDs))
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme <light|dark|system>",
	Short: "Set the UI theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("set theme", err)
		}
		settings, err := campaigns.SetTheme(args[0])
		if err != nil {
			fail("set theme", err)
		}

		if flagJSON {
			printJSON(settings)
		} else {
			fmt.Println("Theme set to", settings.Theme)
		}
		return nil
	},
}

var (
	settingsBackupAuto  bool
	settingsBackupHours uint
)

var settingsBackupCmd = &cobra.Command{
	Use:   "backup-policy",
	Short: "Set the automatic backup policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("set backup policy", err)
		}
		settings, err := campaigns.SetBackupPolicy(settingsBackupAuto, settingsBackupHours)
		if err != nil {
			fail("set backup policy", err)
		}

		if flagJSON {
			printJSON(settings)
		} else {
			fmt.Printf("Auto backup %t, every %d hours\n", settings.AutoBackup, settings.BackupFrequencyHours)
		}
		return nil
	},
}

func init() {
	settingsBackupCmd.Flags().BoolVar(&settingsBackupAuto, "auto", true, "enable automatic backups")
	settingsBackupCmd.Flags().UintVar(&settingsBackupHours, "hours", 24, "hours between backups (1-168)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsBackupCmd)
}
