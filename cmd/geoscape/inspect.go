package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ufoai/geoscape/internal/campaign"
	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/geoscape"
	"github.com/ufoai/geoscape/pkg/core"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show the missions of a stored save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := config.GetCampaignConfig()
		tables, scn, err := loadContent(cc)
		if err != nil {
			return err
		}
		c, err := campaign.New(campaign.Options{
			Difficulty: cc.Difficulty,
			Tables:     tables,
			Scenario:   scn,
			Logger:     Logger,
		})
		if err != nil {
			return err
		}
		defer c.Close()

		if err := loadSave(c, args[0]); err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), inspectFormat, newSaveReport(args[0], c.Engine))
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "yaml", "output format (yaml, json)")
}

// saveReport is what inspect prints.
type saveReport struct {
	ID       string                    `json:"id" yaml:"id"`
	Date     string                    `json:"date" yaml:"date"`
	Interest map[string]int            `json:"interest" yaml:"interest"`
	Overall  int                       `json:"overall" yaml:"overall"`
	Missions []geoscape.MissionSummary `json:"missions" yaml:"-"`
	Summary  []map[string]any          `json:"-" yaml:"missions"`
}

func newSaveReport(id string, e *geoscape.Engine) saveReport {
	r := saveReport{
		ID:       id,
		Date:     e.Now().String(),
		Overall:  e.Interest().Overall(),
		Interest: map[string]int{},
		Missions: e.Summarize(),
	}
	for cat := core.CategoryNone; cat < core.CategoryMax; cat++ {
		if v := e.Interest().Of(cat); v != 0 {
			r.Interest[cat.String()] = v
		}
	}
	// MissionSummary carries json tags only; flatten it so the YAML keys
	// match.
	for _, m := range r.Missions {
		row := map[string]any{
			"id":         m.ID,
			"idx":        m.Idx,
			"category":   m.Category.String(),
			"stage":      m.Stage.String(),
			"start":      m.Start.String(),
			"end":        m.End.String(),
			"onGeoscape": m.OnGeoscape,
		}
		if m.Map != "" {
			row["map"] = m.Map
		}
		if m.Location != "" {
			row["location"] = m.Location
		}
		if m.UFO != "" {
			row["ufo"] = m.UFO
		}
		r.Summary = append(r.Summary, row)
	}
	return r
}

func writeReport(out io.Writer, format string, r saveReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
