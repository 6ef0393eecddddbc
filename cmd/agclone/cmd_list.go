package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/ui"
)

// cellWidth converts a stored column width in pixels to terminal cells.
const cellWidth = 8

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List instances, most recently used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		cfg := eng.Config()
		instances := eng.Instances()
		if len(instances) == 0 {
			fmt.Println(ui.Dim.Render("No instances yet. Create one with: agclone add <name>"))
			return nil
		}

		rows := make([][]string, 0, len(instances))
		for _, inst := range instances {
			note := inst.Note
			if inst.Proxy != "" {
				note += " [Proxy]"
			}
			status := ui.Green.Render("ready")
			if _, err := os.Stat(cfg.ClonePath(inst.Name)); err != nil {
				status = ui.Yellow.Render("not created")
			}
			rows = append(rows, []string{inst.Name, note, status, formatTime(inst.LastUsed)})
		}

		w := cfg.ColumnWidths
		fmt.Println(ui.Table([]ui.Column{
			{Title: "Instance", Width: w["name"] / cellWidth},
			{Title: "Note / proxy", Width: w["note"] / cellWidth},
			{Title: "App"},
			{Title: "Last used", Width: w["last_used"] / cellWidth},
		}, rows))
		fmt.Println(ui.Dim.Render("Storage: " + cfg.AppsDir))
		return nil
	},
}
