package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/ui"
)

func init() {
	rootCmd.AddCommand(guideCmd)
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Explain how instances are isolated and how to route them",
	Run: func(cmd *cobra.Command, args []string) {
		h := ui.Cyan.Bold(true).Render
		fmt.Println(h("How it works"))
		fmt.Println("  Every instance runs from its own copy of the application with its own")
		fmt.Println("  user data and extensions directory, so sessions never mix.")
		fmt.Println("  Both the main process and the language server run under an")
		fmt.Println("  instance-specific process name that a proxy router can match on.")
		fmt.Println()
		fmt.Println(h("Signing in"))
		fmt.Println("  All instances share one login callback. When signing in to a new account:")
		fmt.Println("    1. Quit every other Antigravity window.")
		fmt.Println("    2. Launch only the instance you are signing in to.")
		fmt.Println("    3. Once the token is saved, run as many instances as you like.")
		fmt.Println()
		fmt.Println(h("Proxifier"))
		fmt.Println("  Run " + ui.White.Render("agclone rules <name>") + " for the exact rule of an instance.")
		fmt.Println("  It matches the instance's process names, its app bundle and its")
		fmt.Println("  extensions directory.")
		fmt.Println()
		fmt.Println(h("The original application"))
		fmt.Println("  To route an unmanaged Antigravity, the rule is usually:")
		fmt.Println("    " + ui.White.Render("/Applications/Antigravity.app; ~/.antigravity/extensions/*"))
		fmt.Println(ui.Dim.Render("  Managed instances are easier to route individually."))
		fmt.Println()
		fmt.Println(h("After an update"))
		fmt.Println("  When the source application updates, run " + ui.White.Render("agclone sync <name>"))
		fmt.Println("  to replace the instance's copy. Its data is kept.")
	},
}
