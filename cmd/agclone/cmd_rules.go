package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/ui"
)

var rulesCopy bool

func init() {
	rulesCmd.Flags().BoolVarP(&rulesCopy, "copy", "c", false, "copy the full rule to the clipboard")
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules <name>",
	Short: "Print the proxy router rules that match an instance's processes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		set, err := eng.Rules(args[0])
		if err != nil {
			return err
		}
		printRules(args[0], set)

		if rulesCopy {
			fmt.Println()
			if err := clipboard.WriteAll(set.Full()); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Println(ui.Check + " Copied to clipboard")
		}
		return nil
	},
}
