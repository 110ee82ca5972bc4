// Campaign lifecycle and selection commands for the dmvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var campaignStartSessionCmd = &cobra.Command{
	Use:   "start-session <campaign-id>",
	Short: "Start the next session of a campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("start session", err)
		}
		c, err := campaigns.StartSession(args[0])
		if err != nil {
			fail("start session", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Started session %d of %s\n", c.CurrentSession, c.Name)
		}
		return nil
	},
}

var campaignCompleteCmd = &cobra.Command{
	Use:   "complete <campaign-id>",
	Short: "Mark a campaign completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("complete campaign", err)
		}
		c, err := campaigns.Complete(args[0])
		if err != nil {
			fail("complete campaign", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Completed campaign: %s\n", c.Name)
		}
		return nil
	},
}

var campaignPauseCmd = &cobra.Command{
	Use:   "pause <campaign-id>",
	Short: "Put an active campaign on hold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("pause campaign", err)
		}
		c, err := campaigns.Pause(args[0])
		if err != nil {
			fail("pause campaign", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Paused campaign: %s\n", c.Name)
		}
		return nil
	},
}

var campaignResumeCmd = &cobra.Command{
	Use:   "resume <campaign-id>",
	Short: "Reactivate an on-hold campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("resume campaign", err)
		}
		c, err := campaigns.Resume(args[0])
		if err != nil {
			fail("resume campaign", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Resumed campaign: %s\n", c.Name)
		}
		return nil
	},
}

var campaignArchiveCmd = &cobra.Command{
	Use:   "archive <campaign-id>",
	Short: "Archive a campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("archive campaign", err)
		}
		c, err := campaigns.Archive(args[0])
		if err != nil {
			fail("archive campaign", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Archived campaign: %s\n", c.Name)
		}
		return nil
	},
}

var (
	campaignStatsActive uint
	campaignStatsTotal  uint
	campaignStatsAvg    float64
)

var campaignStatsCmd = &cobra.Command{
	Use:   "set-stats <campaign-id>",
	Short: "Replace a campaign's character statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("set stats", err)
		}
		c, err := campaigns.UpdateStats(args[0], campaignStatsActive, campaignStatsTotal, campaignStatsAvg)
		if err != nil {
			fail("set stats", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Updated stats for %s: %d/%d characters, avg level %.1f\n",
				c.Name, c.Info.ActiveCharacters, c.Info.TotalCharacters, c.AverageLevel)
		}
		return nil
	},
}

var campaignUseCmd = &cobra.Command{
	Use:   "use <campaign-id>",
	Short: "Set the current campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("use campaign", err)
		}
		c, err := campaigns.SetCurrent(args[0])
		if err != nil {
			fail("use campaign", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Current campaign: %s (%s)\n", c.Name, c.ID)
		}
		return nil
	},
}

var campaignCurrentClear bool

var campaignCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show or clear the current campaign",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("current campaign", err)
		}

		if campaignCurrentClear {
			if err := campaigns.ClearCurrent(); err != nil {
				fail("current campaign", err)
			}
			fmt.Println("Current campaign cleared")
			return nil
		}

		c, err := campaigns.Current()
		if err != nil {
			fail("current campaign", err)
		}
		if c == nil {
			fmt.Println("No current campaign")
			return nil
		}
		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Current campaign: %s (%s)\n", c.Name, c.ID)
		}
		return nil
	},
}

var campaignRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently used campaigns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("recent campaigns", err)
		}
		recents, err := campaigns.Recent()
		if err != nil {
			fail("recent campaigns", err)
		}

		if flagJSON {
			printJSON(recents)
			return nil
		}
		if len(recents) == 0 {
			fmt.Println("No recent campaigns")
			return nil
		}
		for _, c := range recents {
			fmt.Printf("%s  %-24s %s\n", c.ID, c.Name, c.Info.CampaignStatus)
		}
		return nil
	},
}

func init() {
	campaignStatsCmd.Flags().UintVar(&campaignStatsActive, "active", 0, "active character count (required)")
	campaignStatsCmd.Flags().UintVar(&campaignStatsTotal, "total", 0, "total character count (required)")
	campaignStatsCmd.Flags().Float64Var(&campaignStatsAvg, "avg-level", 1.0, "average level of active characters (required)")
	campaignStatsCmd.MarkFlagRequired("active")
	campaignStatsCmd.MarkFlagRequired("total")
	campaignStatsCmd.MarkFlagRequired("avg-level")

	campaignCurrentCmd.Flags().BoolVar(&campaignCurrentClear, "clear", false, "clear the current campaign")

	campaignCmd.AddCommand(campaignStartSessionCmd)
	campaignCmd.AddCommand(campaignCompleteCmd)
	campaignCmd.AddCommand(campaignPauseCmd)
	campaignCmd.AddCommand(campaignResumeCmd)
	campaignCmd.AddCommand(campaignArchiveCmd)
	campaignCmd.AddCommand(campaignStatsCmd)
	campaignCmd.AddCommand(campaignUseCmd)
	campaignCmd.AddCommand(campaignCurrentCmd)
	campaignCmd.AddCommand(campaignRecentCmd)
}
