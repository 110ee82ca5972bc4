// Achievement and relationship commands for the dmvault CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablefolk/dmvault/pkg/types"
)

var (
	achievementAddCampaign    string
	achievementAddTitle       string
	achievementAddDescription string
	achievementAddQuest       string
	achievementAddType        string
	achievementAddSessionDate string
)

var achievementAddCmd = &cobra.Command{
	Use:   "add-achievement <character-id>",
	Short: "Record an achievement for a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := types.AddAchievementRequest{
			CharacterID: args[0],
			Title:       achievementAddTitle,
			Description: achievementAddDescription,
			QuestID:     optString(cmd.Flags().Changed("quest"), achievementAddQuest),
			Type:        types.AchievementType(achievementAddType),
		}
		if achievementAddSessionDate != "" {
			d, err := time.Parse("2006-01-02", achievementAddSessionDate)
			if err != nil {
				fail("add achievement", types.InvalidInput(fmt.Sprintf("session date must be YYYY-MM-DD: %v", err)))
			}
			req.SessionDate = &d
		}

		_, characters, err := openStores()
		if err != nil {
			fail("add achievement", err)
		}
		c, err := characters.AddAchievement(achievementAddCampaign, req)
		if err != nil {
			fail("add achievement", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Recorded achievement %q for %s\n", achievementAddTitle, c.Name)
		}
		return nil
	},
}

var achievementRemoveCampaign string

var achievementRemoveCmd = &cobra.Command{
	Use:   "remove-achievement <character-id> <achievement-id>",
	Short: "Remove an achievement from a character",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, characters, err := openStores()
		if err != nil {
			fail("remove achievement", err)
		}
		c, err := characters.RemoveAchievement(achievementRemoveCampaign, args[0], args[1])
		if err != nil {
			fail("remove achievement", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Removed achievement %s from %s\n", args[1], c.Name)
		}
		return nil
	},
}

var (
	relationshipSetCampaign string
	relationshipSetNpc      string
	relationshipSetType     string
	relationshipSetNotes    string
)

var relationshipSetCmd = &cobra.Command{
	Use:   "set-relationship <character-id>",
	Short: "Create or update a character's relationship with an NPC",
	Long: `Set-relationship records how a character stands with an NPC. A character
holds at most one relationship per NPC: setting it again replaces the type
and, when --notes is given, the notes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := types.UpdateRelationshipRequest{
			CharacterID: args[0],
			NpcID:       relationshipSetNpc,
			Type:        types.RelationshipType(relationshipSetType),
			Notes:       optString(cmd.Flags().Changed("notes"), relationshipSetNotes),
		}

		_, characters, err := openStores()
		if err != nil {
			fail("set relationship", err)
		}
		c, err := characters.UpdateRelationship(relationshipSetCampaign, req)
		if err != nil {
			fail("set relationship", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("%s is now %s toward NPC %s\n", c.Name, relationshipSetType, relationshipSetNpc)
		}
		return nil
	},
}

var relationshipRemoveCampaign string

var relationshipRemoveCmd = &cobra.Command{
	Use:   "remove-relationship <character-id> <npc-id>",
	Short: "Remove a character's relationship with an NPC",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, characters, err := openStores()
		if err != nil {
			fail("remove relationship", err)
		}
		c, err := characters.RemoveRelationship(relationshipRemoveCampaign, args[0], args[1])
		if err != nil {
			fail("remove relationship", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("Removed relationship with NPC %s from %s\n", args[1], c.Name)
		}
		return nil
	},
}

func init() {
	requireCampaignFlag(achievementAddCmd, &achievementAddCampaign)
	achievementAddCmd.Flags().StringVar(&achievementAddTitle, "title", "", "achievement title (required)")
	achievementAddCmd.Flags().StringVar(&achievementAddDescription, "description", "", "achievement description")
	achievementAddCmd.Flags().StringVar(&achievementAddQuest, "quest", "", "related quest ID")
	achievementAddCmd.Flags().StringVar(&achievementAddType, "type", string(types.AchievementRoleplay), "achievement type")
	achievementAddCmd.Flags().StringVar(&achievementAddSessionDate, "session-date", "", "session date (YYYY-MM-DD)")
	achievementAddCmd.MarkFlagRequired("title")

	requireCampaignFlag(achievementRemoveCmd, &achievementRemoveCampaign)

	requireCampaignFlag(relationshipSetCmd, &relationshipSetCampaign)
	relationshipSetCmd.Flags().StringVar(&relationshipSetNpc, "npc", "", "NPC ID (required)")
	relationshipSetCmd.Flags().StringVar(&relationshipSetType, "type", string(types.RelationNeutral), "relationship type")
	relationshipSetCmd.Flags().StringVar(&relationshipSetNotes, "notes", "", "relationship notes")
	relationshipSetCmd.MarkFlagRequired("npc")

	requireCampaignFlag(relationshipRemoveCmd, &relationshipRemoveCampaign)

	characterCmd.AddCommand(achievementAddCmd)
	characterCmd.AddCommand(achievementRemoveCmd)
	characterCmd.AddCommand(relationshipSetCmd)
	characterCmd.AddCommand(relationshipRemoveCmd)
}
