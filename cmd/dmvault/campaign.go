// Campaign commands for the dmvault CLI: create, list, get, update, delete,
// duplicate, export, import, and bookkeeping queries.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablefolk/dmvault/pkg/types"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage campaigns",
}

var (
	campaignCreateName        string
	campaignCreateDescription string
	campaignCreateSetting     string
	campaignCreateDmNotes     string
	campaignCreateDifficulty  string
	campaignCreatePlayers     uint
)

var campaignCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new campaign",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := types.CreateCampaignRequest{
			Name:            campaignCreateName,
			Description:     campaignCreateDescription,
			Setting:         campaignCreateSetting,
			DmNotes:         optString(cmd.Flags().Changed("dm-notes"), campaignCreateDmNotes),
			DifficultyLevel: types.DifficultyLevel(campaignCreateDifficulty),
			PlayerCount:     optUint(cmd.Flags().Changed("players"), campaignCreatePlayers),
		}
		if err := req.Validate(); err != nil {
			fail("create campaign", err)
		}

		campaigns, _, err := openStores()
		if err != nil {
			fail("create campaign", err)
		}
		created, err := campaigns.Create(types.NewCampaign(req))
		if err != nil {
			fail("create campaign", err)
		}

		if flagJSON {
			printJSON(created)
		} else {
			fmt.Printf("Created campaign: %s (%s)\n", created.Name, created.ID)
		}
		return nil
	},
}

var campaignListActive bool

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaign summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("list campaigns", err)
		}

		if campaignListActive {
			active, err := campaigns.Active()
			if err != nil {
				fail("list campaigns", err)
			}
			if flagJSON {
				printJSON(active)
				return nil
			}
			for _, c := range active {
				fmt.Printf("%s  %-24s %s\n", c.ID, c.Name, c.Info.CampaignStatus)
			}
			return nil
		}

		summaries, err := campaigns.Summaries()
		if err != nil {
			fail("list campaigns", err)
		}
		if flagJSON {
			printJSON(summaries)
			return nil
		}
		for _, s := range summaries {
			last := "never"
			if s.LastSessionDate != nil {
				last = s.LastSessionDate.Format("2006-01-02")
			}
			fmt.Printf("%s  %-24s %-10s session %d, last %s\n", s.ID, s.Name, s.Status, s.CurrentSession, last)
		}
		return nil
	},
}

var campaignGetCmd = &cobra.Command{
	Use:   "get <campaign-id>",
	Short: "Show one campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("get campaign", err)
		}
		c, err := campaigns.Get(args[0])
		if err != nil {
			fail("get campaign", err)
		}

		if flagJSON {
			printJSON(c)
			return nil
		}
		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		fmt.Printf("  setting:    %s\n", c.Setting)
		fmt.Printf("  status:     %s (%s)\n", c.Info.CampaignStatus, c.Info.DifficultyLevel)
		fmt.Printf("  session:    %d\n", c.CurrentSession)
		fmt.Printf("  characters: %d total, %d active, avg level %.1f\n",
			c.Info.TotalCharacters, c.Info.ActiveCharacters, c.AverageLevel)
		return nil
	},
}

var (
	campaignUpdateName        string
	campaignUpdateDescription string
	campaignUpdateSetting     string
	campaignUpdateDmNotes     string
	campaignUpdateDifficulty  string
	campaignUpdatePlayers     uint
	campaignUpdateActive      bool
)

var campaignUpdateCmd = &cobra.Command{
	Use:   "update <campaign-id>",
	Short: "Update campaign fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := types.CampaignPatch{
			Name:        optString(cmd.Flags().Changed("name"), campaignUpdateName),
			Description: optString(cmd.Flags().Changed("description"), campaignUpdateDescription),
			Setting:     optString(cmd.Flags().Changed("setting"), campaignUpdateSetting),
			DmNotes:     optString(cmd.Flags().Changed("dm-notes"), campaignUpdateDmNotes),
			PlayerCount: optUint(cmd.Flags().Changed("players"), campaignUpdatePlayers),
			IsActive:    optBool(cmd.Flags().Changed("active"), campaignUpdateActive),
		}
		if cmd.Flags().Changed("difficulty") {
			d := types.DifficultyLevel(campaignUpdateDifficulty)
			patch.DifficultyLevel = &d
		}

		campaigns, _, err := openStores()
		if err != nil {
			fail("update campaign", err)
		}
		updated, err := campaigns.Update(args[0], patch)
		if err != nil {
			fail("update campaign", err)
		}

		if flagJSON {
			printJSON(updated)
		} else {
			fmt.Printf("Updated campaign: %s\n", updated.ID)
		}
		return nil
	},
}

var campaignDeleteCmd = &cobra.Command{
	Use:   "delete <campaign-id>",
	Short: "Delete a campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("delete campaign", err)
		}
		if err := campaigns.Delete(args[0]); err != nil {
			fail("delete campaign", err)
		}
		fmt.Printf("Deleted campaign: %s\n", args[0])
		return nil
	},
}

var campaignDuplicateName string

var campaignDuplicateCmd = &cobra.Command{
	Use:   "duplicate <campaign-id>",
	Short: "Clone a campaign under a new name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("duplicate campaign", err)
		}
		dup, err := campaigns.Duplicate(args[0], campaignDuplicateName)
		if err != nil {
			fail("duplicate campaign", err)
		}

		if flagJSON {
			printJSON(dup)
		} else {
			fmt.Printf("Created campaign: %s (%s)\n", dup.Name, dup.ID)
		}
		return nil
	},
}

var campaignExportCmd = &cobra.Command{
	Use:   "export <campaign-id>",
	Short: "Export a campaign as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("export campaign", err)
		}
		data, err := campaigns.Export(args[0])
		if err != nil {
			fail("export campaign", err)
		}
		fmt.Println(data)
		return nil
	},
}

var campaignImportFile string

var campaignImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a campaign from exported JSON",
	Long: `Import reads exported campaign JSON from --file, or from stdin when no
file is given, and creates the campaign under a fresh ID.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if campaignImportFile != "" {
			data, err = os.ReadFile(campaignImportFile)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "import campaign:", err)
			os.Exit(exitSysError)
		}

		campaigns, _, err := openStores()
		if err != nil {
			fail("import campaign", err)
		}
		imported, err := campaigns.Import(string(data))
		if err != nil {
			fail("import campaign", err)
		}

		if flagJSON {
			printJSON(imported)
		} else {
			fmt.Printf("Imported campaign: %s (%s)\n", imported.Name, imported.ID)
		}
		return nil
	},
}

var campaignNameAvailableCmd = &cobra.Command{
	Use:   "name-available <name>",
	Short: "Check whether a campaign name is unused",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("check name", err)
		}
		available, err := campaigns.NameAvailable(args[0])
		if err != nil {
			fail("check name", err)
		}

		if flagJSON {
			printJSON(map[string]bool{"available": available})
			return nil
		}
		if available {
			fmt.Printf("%q is available\n", args[0])
		} else {
			fmt.Printf("%q is already in use\n", args[0])
			os.Exit(exitUserError)
		}
		return nil
	},
}

var campaignCountsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show total and active campaign counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("count campaigns", err)
		}
		total, active, err := campaigns.Counts()
		if err != nil {
			fail("count campaigns", err)
		}

		if flagJSON {
			printJSON(map[string]int{"total": total, "active": active})
		} else {
			fmt.Printf("%d campaigns (%d active)\n", total, active)
		}
		return nil
	},
}

var campaignBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the campaigns file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaigns, _, err := openStores()
		if err != nil {
			fail("backup campaigns", err)
		}
		path, err := campaigns.Backup()
		if err != nil {
			fail("backup campaigns", err)
		}
		fmt.Println("Backup written:", path)
		return nil
	},
}

func init() {
	campaignCreateCmd.Flags().StringVar(&campaignCreateName, "name", "", "campaign name (required)")
	campaignCreateCmd.Flags().StringVar(&campaignCreateDescription, "description", "", "campaign description (required)")
	campaignCreateCmd.Flags().StringVar(&campaignCreateSetting, "setting", "", "campaign setting (required)")
	campaignCreateCmd.Flags().StringVar(&campaignCreateDmNotes, "dm-notes", "", "private DM notes")
	campaignCreateCmd.Flags().StringVar(&campaignCreateDifficulty, "difficulty", string(types.DifficultyNormal), "difficulty level (Casual, Normal, Hard, Deadly)")
	campaignCreateCmd.Flags().UintVar(&campaignCreatePlayers, "players", 0, "expected player count (1-12)")
	campaignCreateCmd.MarkFlagRequired("name")
	campaignCreateCmd.MarkFlagRequired("description")
	campaignCreateCmd.MarkFlagRequired("setting")

	campaignListCmd.Flags().BoolVar(&campaignListActive, "active", false, "list only active campaigns")

	campaignUpdateCmd.Flags().StringVar(&campaignUpdateName, "name", "", "campaign name")
	campaignUpdateCmd.Flags().StringVar(&campaignUpdateDescription, "description", "", "campaign description")
	campaignUpdateCmd.Flags().StringVar(&campaignUpdateSetting, "setting", "", "campaign setting")
	campaignUpdateCmd.Flags().StringVar(&campaignUpdateDmNotes, "dm-notes", "", "private DM notes")
	campaignUpdateCmd.Flags().StringVar(&campaignUpdateDifficulty, "difficulty", "", "difficulty level")
	campaignUpdateCmd.Flags().UintVar(&campaignUpdatePlayers, "players", 0, "expected player count (1-12)")
	campaignUpdateCmd.Flags().BoolVar(&campaignUpdateActive, "active", false, "whether the campaign is active")

	campaignDuplicateCmd.Flags().StringVar(&campaignDuplicateName, "name", "", "name for the duplicate (required)")
	campaignDuplicateCmd.MarkFlagRequired("name")

	campaignImportCmd.Flags().StringVar(&campaignImportFile, "file", "", "JSON file to import (default: stdin)")

	campaignCmd.AddCommand(campaignCreateCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignGetCmd)
	campaignCmd.AddCommand(campaignUpdateCmd)
	campaignCmd.AddCommand(campaignDeleteCmd)
	campaignCmd.AddCommand(campaignDuplicateCmd)
	campaignCmd.AddCommand(campaignExportCmd)
	campaignCmd.AddCommand(campaignImportCmd)
	campaignCmd.AddCommand(campaignNameAvailableCmd)
	campaignCmd.AddCommand(campaignCountsCmd)
	campaignCmd.AddCommand(campaignBackupCmd)
}
