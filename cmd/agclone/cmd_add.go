package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/engine"
	"github.com/battlewithbytes/agclone/internal/forms"
	"github.com/battlewithbytes/agclone/internal/ui"
)

var (
	addNote  string
	addProxy string
)

func init() {
	addCmd.Flags().StringVar(&addNote, "note", "", "free-form note")
	addCmd.Flags().StringVar(&addProxy, "proxy", "", "proxy URL, e.g. socks5://127.0.0.1:7890")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new instance and clone the application for it",
	Long:  "Create a new instance. Without a name an interactive form asks for name, note and proxy.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		answers := &forms.InstanceAnswers{Note: addNote, Proxy: addProxy}
		if len(args) == 1 {
			answers.Name = args[0]
		} else {
			taken := func(s string) bool {
				_, ok := eng.Config().Conflict(s)
				return ok
			}
			if err := forms.InstanceForm(answers, nil, taken).Run(); err != nil {
				return fmt.Errorf("form cancelled: %w", err)
			}
			if !answers.Confirmed {
				fmt.Println("Cancelled.")
				return nil
			}
		}
		answers.Normalize()
		if err := forms.ValidateProxy(answers.Proxy); err != nil {
			return fmt.Errorf("invalid proxy: %w", err)
		}

		fmt.Println(ui.Dim.Render("Cloning " + eng.Config().OriginalAppPath + " ..."))
		inst, err := eng.CreateInstance(engine.InstanceInput{
			Name:  answers.Name,
			Note:  answers.Note,
			Proxy: answers.Proxy,
		})
		if err != nil {
			return err
		}

		fmt.Println(ui.Check + " Created instance " + ui.White.Render(inst.Name))
		fmt.Println(ui.Field("Clone", eng.Config().ClonePath(inst.Name)))
		fmt.Println(ui.Field("Data", eng.Config().Data(inst.Name).Root))
		fmt.Println()
		if set, err := eng.Rules(inst.Name); err == nil {
			printRules(inst.Name, set)
		}
		return nil
	},
}
