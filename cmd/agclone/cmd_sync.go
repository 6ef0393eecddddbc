package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/shim"
	"github.com/battlewithbytes/agclone/internal/ui"
)

var syncYes bool

func init() {
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync <name>",
	Short: "Replace an instance's clone with a fresh copy of the source application",
	Long: "Replace an instance's clone with a fresh copy of the source application and re-apply the process shims.\n" +
		"Use this after the source application updated. User data and extensions are kept.",
	Args: cobra.ExactArgs(1),
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
		if !syncYes {
			ok, err := confirm("Sync "+inst.Name+" with the source application?",
				"The clone is deleted and copied again. Quit the instance first.")
			if err != nil {
				return fmt.Errorf("confirmation cancelled: %w", err)
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		fmt.Println(ui.Dim.Render("Copying " + eng.Config().OriginalAppPath + " ..."))
		res, err := eng.SyncKernel(inst.Name)
		if err != nil {
			return err
		}
		fmt.Println(ui.Check + " Synced " + ui.White.Render(inst.Name))
		for _, slot := range shim.Slots() {
			fmt.Println(ui.Field("Shim "+slot.Name, res.Shims[slot.Name].String()))
		}
		return nil
	},
}
