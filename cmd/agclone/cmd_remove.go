package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/forms"
	"github.com/battlewithbytes/agclone/internal/ui"
)

var (
	removeYes      bool
	removeKeepData bool
)

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "do not ask for confirmation")
	removeCmd.Flags().BoolVar(&removeKeepData, "keep-data", false, "keep the user data and extensions directory")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete an instance, its clone and (by default) its data",
	Args:    cobra.ExactArgs(1),
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

		deleteData := !removeKeepData
		if !removeYes {
			var confirmed bool
			if err := forms.DeleteForm(inst.Name, &deleteData, &confirmed).Run(); err != nil {
				return fmt.Errorf("form cancelled: %w", err)
			}
			if !confirmed {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		res, err := eng.DeleteInstance(inst.Name, deleteData)
		if err != nil {
			return err
		}
		fmt.Println(ui.Check + " Removed instance " + ui.White.Render(inst.Name))
		if !res.CloneRemoved {
			fmt.Println(ui.Dim.Render("  No clone was present."))
		}
		switch {
		case res.DataRemoved:
			fmt.Println(ui.Dim.Render("  User data deleted."))
		case !deleteData:
			fmt.Println(ui.Dim.Render("  User data kept at " + eng.Config().Data(inst.Name).Root))
		}
		return nil
	},
}
