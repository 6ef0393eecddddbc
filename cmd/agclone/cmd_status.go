package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/shim"
	"github.com/battlewithbytes/agclone/internal/ui"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show the clone, data and shim state of an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		st, err := eng.Status(args[0])
		if err != nil {
			return err
		}

		inst := st.Instance
		fmt.Println(ui.Cyan.Render("Instance ") + ui.White.Render(inst.Name))
		if inst.Note != "" {
			fmt.Println(ui.Field("Note", inst.Note))
		}
		proxy := inst.Proxy
		if proxy == "" {
			proxy = "none"
		}
		fmt.Println(ui.Field("Proxy", proxy))
		fmt.Println(ui.Field("Created", formatTime(inst.CreatedAt)))
		fmt.Println(ui.Field("Last used", formatTime(inst.LastUsed)))
		fmt.Println()
		fmt.Println(ui.Field("Clone", presence(st.ClonePath, st.CloneExists)))
		fmt.Println(ui.Field("Data", presence(st.DataPath, st.DataExists)))

		if len(st.Slots) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Process shims:"))
		for _, s := range st.Slots {
			line := slotState(s.State) + " " + ui.White.Render(s.Slot.Name) + ui.Dim.Render(" "+s.Slot.Binary())
			if s.BackupType != "" {
				line += ui.Dim.Render("  original: " + s.BackupType)
			}
			fmt.Println("  " + line)
			if len(s.Identities) > 0 {
				fmt.Println(ui.Dim.Render("    identities: ") + strings.Join(s.Identities, ", "))
			}
		}
		return nil
	},
}

func presence(path string, ok bool) string {
	if ok {
		return path
	}
	return path + ui.Yellow.Render(" (missing)")
}

func slotState(s shim.State) string {
	switch s {
	case shim.Installed:
		return ui.Check
	case shim.Captured:
		return ui.Warn
	default:
		return ui.Cross
	}
}
