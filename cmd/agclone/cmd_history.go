package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/ui"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of events to show; 0 shows all")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show recent operations, for one instance or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		var name string
		if len(args) == 1 {
			name = args[0]
		}
		events, err := eng.History(name, historyLimit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println(ui.Dim.Render("No history recorded."))
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			result := ui.Green.Render("ok")
			if !ev.OK() {
				result = ui.Red.Render(ev.Error)
			}
			rows = append(rows, []string{
				ev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				ev.Instance,
				ev.Action,
				ev.Duration.Round(time.Millisecond).String(),
				result,
			})
		}
		fmt.Println(ui.Table([]ui.Column{
			{Title: "When"},
			{Title: "Instance"},
			{Title: "Action"},
			{Title: "Took"},
			{Title: "Result", Width: 60},
		}, rows))
		return nil
	},
}
