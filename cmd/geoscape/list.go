package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ufoai/geoscape/internal/config"
	"github.com/ufoai/geoscape/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saves of the configured storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, archive, err := openArchive(config.GetStorageConfig())
		if err != nil {
			return err
		}
		defer backend.Close()

		entries, err := archive.List()
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func printEntries(out io.Writer, entries []storage.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tMISSIONS\tSAVED AT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.ID, e.Date, e.Missions, e.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
