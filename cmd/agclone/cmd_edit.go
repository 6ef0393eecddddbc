package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/forms"
	"github.com/battlewithbytes/agclone/internal/ui"
)

var (
	editNote  string
	editProxy string
)

func init() {
	editCmd.Flags().StringVar(&editNote, "note", "", "new note")
	editCmd.Flags().StringVar(&editProxy, "proxy", "", "new proxy URL; empty string removes the proxy")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Change the note or proxy of an instance",
	Long:  "Change the note or proxy of an instance. The name cannot be changed. Without flags an interactive form is shown.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		inst, err := eng.Instance(args[0])
		if err != nil {
			return err
		}

		var upd config.InstanceUpdate
		if cmd.Flags().Changed("note") || cmd.Flags().Changed("proxy") {
			if cmd.Flags().Changed("note") {
				upd.Note = &editNote
			}
			if cmd.Flags().Changed("proxy") {
				upd.Proxy = &editProxy
			}
		} else {
			answers := &forms.InstanceAnswers{}
			if err := forms.InstanceForm(answers, &inst, nil).Run(); err != nil {
				return fmt.Errorf("form cancelled: %w", err)
			}
			if !answers.Confirmed {
				fmt.Println("Cancelled.")
				return nil
			}
			answers.Normalize()
			upd.Note = &answers.Note
			upd.Proxy = &answers.Proxy
		}
		if upd.Proxy != nil {
			if err := forms.ValidateProxy(*upd.Proxy); err != nil {
				return fmt.Errorf("invalid proxy: %w", err)
			}
		}

		if err := eng.UpdateInstance(inst.Name, upd); err != nil {
			return err
		}
		fmt.Println(ui.Check + " Updated " + ui.White.Render(inst.Name))
		if upd.Proxy != nil && *upd.Proxy != inst.Proxy {
			fmt.Println(ui.Dim.Render("  The new proxy applies from the next launch."))
		}
		return nil
	},
}
