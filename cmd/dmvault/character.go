// Character commands for the dmvault CLI: create, list, get, update, delete,
// and progression. Every mutation resyncs the owning campaign's character
// statistics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablefolk/dmvault/pkg/types"
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Manage characters",
}

var (
	characterCreateCampaign   string
	characterCreateName       string
	characterCreateRace       string
	characterCreateClass      string
	characterCreateLevel      int
	characterCreateHP         int
	characterCreateMaxHP      int
	characterCreateBackground string
	characterCreateNotes      string
)

var characterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new character in a campaign",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hp := characterCreateHP
		if !cmd.Flags().Changed("hp") {
			hp = characterCreateMaxHP
		}
		req := types.CreateCharacterRequest{
			CampaignID:   characterCreateCampaign,
			Name:         characterCreateName,
			Race:         characterCreateRace,
			Class:        characterCreateClass,
			Level:        characterCreateLevel,
			HitPoints:    hp,
			MaxHitPoints: characterCreateMaxHP,
			Background:   characterCreateBackground,
			Notes:        optString(cmd.Flags().Changed("notes"), characterCreateNotes),
		}
		if err := req.Validate(); err != nil {
			fail("create character", err)
		}

		campaigns, characters, err := openStores()
		if err != nil {
			fail("create character", err)
		}
		// The campaign must exist and accept new characters.
		c, err := campaigns.Get(req.CampaignID)
		if err != nil {
			fail("create character", err)
		}
		if !c.Info.CampaignStatus.AllowsModifications() {
			fail("create character", types.CampaignErr("campaign cannot be modified in its current status"))
		}

		created, err := characters.Create(types.NewCharacter(req))
		if err != nil {
			fail("create character", err)
		}
		if err := syncCampaignStats(campaigns, characters, req.CampaignID); err != nil {
			fail("create character", err)
		}

		if flagJSON {
			printJSON(created)
		} else {
			fmt.Printf("Created character: %s (%s)\n", created.Name, created.ID)
		}
		return nil
	},
}

var (
	characterListCampaign string
	characterListActive   bool
)

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters in a campaign",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, characters, err := openStores()
		if err != nil {
			fail("list characters", err)
		}

		var list []*types.Character
		if characterListActive {
			list, err = characters.ActiveByCampaign(characterListCampaign)
		} else {
			list, err = characters.ByCampaign(characterListCampaign)
		}
		if err != nil {
			fail("list characters", err)
		}

		if flagJSON {
			printJSON(list)
			return nil
		}
		for _, c := range list {
			state := "active"
			if !c.IsActive {
				state = "inactive"
			}
			fmt.Printf("%s  %-20s level %2d %s %s (%s)\n", c.ID, c.Name, c.Level, c.Race, c.Class, state)
		}
		return nil
	},
}

var characterGetCampaign string

var characterGetCmd = &cobra.Command{
	Use:   "get <character-id>",
	Short: "Show one character",
	Long: `Get shows a character. With --campaign the lookup reads only that
campaign's file; without it every campaign is searched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, characters, err := openStores()
		if err != nil {
			fail("get character", err)
		}

		var c *types.Character
		if characterGetCampaign != "" {
			c, err = characters.Get(characterGetCampaign, args[0])
		} else {
			c, err = characters.Find(args[0])
		}
		if err != nil {
			fail("get character", err)
		}

		if flagJSON {
			printJSON(c)
			return nil
		}
		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		fmt.Printf("  %s %s, level %d\n", c.Race, c.Class, c.Level)
		fmt.Printf("  hp: %d/%d\n", c.HitPoints, c.MaxHitPoints)
		fmt.Printf("  achievements: %d, relationships: %d\n", len(c.Achievements), len(c.Relationships))
		return nil
	},
}

var (
	characterUpdateCampaign   string
	characterUpdateName       string
	characterUpdateRace       string
	characterUpdateClass      string
	characterUpdateLevel      int
	characterUpdateHP         int
	characterUpdateMaxHP      int
	characterUpdateBackground string
	characterUpdateNotes      string
	characterUpdateActive     bool
)

var characterUpdateCmd = &cobra.Command{
	Use:   "update <character-id>",
	Short: "Update character fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := types.CharacterPatch{
			Name:         optString(cmd.Flags().Changed("name"), characterUpdateName),
			Race:         optString(cmd.Flags().Changed("race"), characterUpdateRace),
			Class:        optString(cmd.Flags().Changed("class"), characterUpdateClass),
			Level:        optInt(cmd.Flags().Changed("level"), characterUpdateLevel),
			HitPoints:    optInt(cmd.Flags().Changed("hp"), characterUpdateHP),
			MaxHitPoints: optInt(cmd.Flags().Changed("max-hp"), characterUpdateMaxHP),
			Background:   optString(cmd.Flags().Changed("background"), characterUpdateBackground),
			Notes:        optString(cmd.Flags().Changed("notes"), characterUpdateNotes),
			IsActive:     optBool(cmd.Flags().Changed("active"), characterUpdateActive),
		}

		campaigns, characters, err := openStores()
		if err != nil {
			fail("update character", err)
		}
		updated, err := characters.Update(characterUpdateCampaign, args[0], patch)
		if err != nil {
			fail("update character", err)
		}
		if err := syncCampaignStats(campaigns, characters, characterUpdateCampaign); err != nil {
			fail("update character", err)
		}

		if flagJSON {
			printJSON(updated)
		} else {
			fmt.Printf("Updated character: %s\n", updated.ID)
		}
		return nil
	},
}

var characterDeleteCampaign string

var characterDeleteCmd = &cobra.Command{
	Use:   "delete <character-id>",
	Short: "Delete a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, characters, err := openStores()
		if err != nil {
			fail("delete character", err)
		}
		if err := characters.Delete(characterDeleteCampaign, args[0]); err != nil {
			fail("delete character", err)
		}
		if err := syncCampaignStats(campaigns, characters, characterDeleteCampaign); err != nil {
			fail("delete character", err)
		}
		fmt.Printf("Deleted character: %s\n", args[0])
		return nil
	},
}

var characterLevelUpCampaign string

var characterLevelUpCmd = &cobra.Command{
	Use:   "level-up <character-id>",
	Short: "Raise a character one level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, characters, err := openStores()
		if err != nil {
			fail("level up", err)
		}
		c, err := characters.LevelUp(characterLevelUpCampaign, args[0])
		if err != nil {
			fail("level up", err)
		}
		if err := syncCampaignStats(campaigns, characters, characterLevelUpCampaign); err != nil {
			fail("level up", err)
		}

		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("%s is now level %d\n", c.Name, c.Level)
		}
		return nil
	},
}

var characterToggleCampaign string

var characterToggleCmd = &cobra.Command{
	Use:   "toggle-active <character-id>",
	Short: "Flip whether a character is active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, characters, err := openStores()
		if err != nil {
			fail("toggle character", err)
		}
		c, err := characters.ToggleActive(characterToggleCampaign, args[0])
		if err != nil {
			fail("toggle character", err)
		}
		if err := syncCampaignStats(campaigns, characters, characterToggleCampaign); err != nil {
			fail("toggle character", err)
		}

		state := "inactive"
		if c.IsActive {
			state = "active"
		}
		if flagJSON {
			printJSON(c)
		} else {
			fmt.Printf("%s is now %s\n", c.Name, state)
		}
		return nil
	},
}

var characterBackupCampaign string

var characterBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up a campaign's character file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, characters, err := openStores()
		if err != nil {
			fail("backup characters", err)
		}
		path, err := characters.Backup(characterBackupCampaign)
		if err != nil {
			fail("backup characters", err)
		}
		fmt.Println("Backup written:", path)
		return nil
	},
}

// requireCampaignFlag registers the shared --campaign flag on cmd.
func requireCampaignFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "campaign", "", "owning campaign ID (required)")
	if err := cmd.MarkFlagRequired("campaign"); err != nil {
		fmt.Fprintln(os.Stderr, "register flags:", err)
		os.Exit(exitSysError)
	}
}

func init() {
	characterCreateCmd.Flags().StringVar(&characterCreateCampaign, "campaign", "", "owning campaign ID (required)")
	characterCreateCmd.Flags().StringVar(&characterCreateName, "name", "", "character name (required)")
	characterCreateCmd.Flags().StringVar(&characterCreateRace, "race", "", "character race (required)")
	characterCreateCmd.Flags().StringVar(&characterCreateClass, "class", "", "character class (required)")
	characterCreateCmd.Flags().IntVar(&characterCreateLevel, "level", 1, "starting level (1-20)")
	characterCreateCmd.Flags().IntVar(&characterCreateHP, "hp", 0, "current hit points (default: max hp)")
	characterCreateCmd.Flags().IntVar(&characterCreateMaxHP, "max-hp", 0, "maximum hit points (required)")
	characterCreateCmd.Flags().StringVar(&characterCreateBackground, "background", "", "character background")
	characterCreateCmd.Flags().StringVar(&characterCreateNotes, "notes", "", "free-form notes")
	characterCreateCmd.MarkFlagRequired("campaign")
	characterCreateCmd.MarkFlagRequired("name")
	characterCreateCmd.MarkFlagRequired("race")
	characterCreateCmd.MarkFlagRequired("class")
	characterCreateCmd.MarkFlagRequired("max-hp")

	requireCampaignFlag(characterListCmd, &characterListCampaign)
	characterListCmd.Flags().BoolVar(&characterListActive, "active", false, "list only active characters")

	characterGetCmd.Flags().StringVar(&characterGetCampaign, "campaign", "", "owning campaign ID (searches all campaigns when omitted)")

	requireCampaignFlag(characterUpdateCmd, &characterUpdateCampaign)
	characterUpdateCmd.Flags().StringVar(&characterUpdateName, "name", "", "character name")
	characterUpdateCmd.Flags().StringVar(&characterUpdateRace, "race", "", "character race")
	characterUpdateCmd.Flags().StringVar(&characterUpdateClass, "class", "", "character class")
	characterUpdateCmd.Flags().IntVar(&characterUpdateLevel, "level", 0, "character level (1-20)")
	characterUpdateCmd.Flags().IntVar(&characterUpdateHP, "hp", 0, "current hit points")
	characterUpdateCmd.Flags().IntVar(&characterUpdateMaxHP, "max-hp", 0, "maximum hit points")
	characterUpdateCmd.Flags().StringVar(&characterUpdateBackground, "background", "", "character background")
	characterUpdateCmd.Flags().StringVar(&characterUpdateNotes, "notes", "", "free-form notes")
	characterUpdateCmd.Flags().BoolVar(&characterUpdateActive, "active", false, "whether the character is active")

	requireCampaignFlag(characterDeleteCmd, &characterDeleteCampaign)
	requireCampaignFlag(characterLevelUpCmd, &characterLevelUpCampaign)
	requireCampaignFlag(characterToggleCmd, &characterToggleCampaign)
	requireCampaignFlag(characterBackupCmd, &characterBackupCampaign)

	characterCmd.AddCommand(characterCreateCmd)
	characterCmd.AddCommand(characterListCmd)
	characterCmd.AddCommand(characterGetCmd)
	characterCmd.AddCommand(characterUpdateCmd)
	characterCmd.AddCommand(characterDeleteCmd)
	characterCmd.AddCommand(characterLevelUpCmd)
	characterCmd.AddCommand(characterToggleCmd)
	characterCmd.AddCommand(characterBackupCmd)
}
