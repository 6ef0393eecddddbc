package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/ui"
)

func init() {
	rootCmd.AddCommand(launchCmd)
}

var launchCmd = &cobra.Command{
	Use:     "launch <name>",
	Aliases: []string{"start", "run"},
	Short:   "Start an instance with its own data, extensions and proxy",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res, err := eng.Launch(args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.Check + " Launched " + ui.White.Render(args[0]) + ui.Dim.Render(" (pid "+strconv.Itoa(res.Command.PID)+")"))
		if res.Created {
			fmt.Println(ui.Field("Clone", res.Clone+" (new)"))
		}
		fmt.Println(ui.Field("User data", res.Data.UserData))
		fmt.Println(ui.Field("Extensions", res.Data.Extensions))
		if res.Settings != nil {
			fmt.Println(ui.Field("Settings", res.Settings.Path))
			if res.Settings.Backup != "" {
				fmt.Println(ui.Warn + " Unreadable settings were replaced; the old file is at " + res.Settings.Backup)
			}
		}
		if res.Command.Fallback {
			fmt.Println(ui.Warn + " No executable found in the bundle; opened through LaunchServices, so the proxy environment may not apply.")
		}
		return nil
	},
}
