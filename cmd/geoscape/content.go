package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/content"
	"github.com/ufoai/geoscape/internal/world"
)

var contentCheckCmd = &cobra.Command{
	Use:   "content-check [content.yaml] [scenario.yaml]",
	Short: "Validate content and scenario files",
	Long: `Validate content and scenario files.
Without arguments the files named by campaign.contentFile and
campaign.scenarioFile are checked, or the built-in ones when unset.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := config.GetCampaignConfig()
		if len(args) > 0 {
			cc.ContentFile = args[0]
		}
		if len(args) > 1 {
			cc.ScenarioFile = args[1]
		}

		tables, scn, err := loadContent(cc)
		if err != nil {
			return err
		}
		if tables == nil {
			if tables, err = content.Default(); err != nil {
				return err
			}
		}
		if scn == nil {
			if scn, err = world.DefaultScenario(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content: %d ufos, %d availability rules, %d alien categories, %d equipment packs, %d maps\n",
			len(tables.UFOs), len(tables.Availability), len(tables.AlienCategories), len(tables.Equipment), len(tables.Maps))
		fmt.Fprintf(out, "scenario: %d nations, %d bases, %d installations, start day %d\n",
			len(scn.Nations), len(scn.Bases), len(scn.Installations), scn.Start.Day)
		return nil
	},
}
