// Analytics commands for the dmvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablefolk/dmvault/internal/analytics"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Campaign reports",
}

var analyticsReportCmd = &cobra.Command{
	Use:   "report [campaign-id]",
	Short: "Show aggregate reports for one campaign or all campaigns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, characters, err := openStores()
		if err != nil {
			fail("analytics", err)
		}
		engine := analytics.NewEngine(campaigns, characters)

		if len(args) == 1 {
			report, err := engine.CampaignReport(args[0])
			if err != nil {
				fail("analytics", err)
			}
			if flagJSON {
				printJSON(report)
			} else {
				printReport(report)
			}
			return nil
		}

		reports, err := engine.AllReports()
		if err != nil {
			fail("analytics", err)
		}
		if flagJSON {
			printJSON(reports)
			return nil
		}
		for i, r := range reports {
			if i > 0 {
				fmt.Println()
			}
			printReport(r)
		}
		return nil
	},
}

var analyticsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show totals across all campaigns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, characters, err := openStores()
		if err != nil {
			fail("analytics", err)
		}

		o, err := analytics.NewEngine(campaigns, characters).StoreOverview()
		if err != nil {
			fail("analytics", err)
		}
		if flagJSON {
			printJSON(o)
			return nil
		}
		fmt.Printf("campaigns:  %d total, %d active, %d completed\n",
			o.TotalCampaigns, o.ActiveCampaigns, o.CompletedCampaigns)
		fmt.Printf("sessions:   %d\n", o.TotalSessions)
		fmt.Printf("characters: %d total, %d active, avg level %.1f\n",
			o.TotalCharacters, o.ActiveCharacters, o.AverageLevel)
		return nil
	},
}

func printReport(r *analytics.Report) {
	fmt.Printf("%s (%s)\n", r.CampaignName, r.CampaignID)
	fmt.Printf("  status:        %s, %d sessions\n", r.Status, r.TotalSessions)
	fmt.Printf("  characters:    %d total, %d active\n", r.TotalCharacters, r.ActiveCharacters)
	fmt.Printf("  levels:        avg %.1f (min %d, max %d)\n", r.AverageLevel, r.MinLevel, r.MaxLevel)
	fmt.Printf("  achievements:  %d\n", r.TotalAchievements)
	fmt.Printf("  relationships: %d\n", r.TotalRelationships)
	fmt.Printf("  quests:        %.0f%% complete\n", r.QuestCompletionRate)
	fmt.Printf("  encounters:    x%.2f multiplier\n", r.EncounterMultiplier)
	for class, count := range r.ClassCounts {
		fmt.Printf("  class:         %s x%d\n", class, count)
	}
}

func init() {
	analyticsCmd.AddCommand(analyticsReportCmd)
	analyticsCmd.AddCommand(analyticsOverviewCmd)
}
