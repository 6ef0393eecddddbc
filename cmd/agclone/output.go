package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/agclone/internal/rules"
	"github.com/battlewithbytes/agclone/internal/ui"
)

// printRules shows the router rules for an instance, full rule first.
func printRules(name string, set rules.Set) {
	fmt.Println(ui.Cyan.Render("Proxy router rules for ") + ui.White.Render(name))
	fmt.Println()
	fmt.Println(set.Full())
	fmt.Println()
	fmt.Println(ui.Dim.Render("Paste the line above into a single Proxifier rule. It covers the main"))
	fmt.Println(ui.Dim.Render("process (including the updater) and the language server by their"))
	fmt.Println(ui.Dim.Render("instance-specific process names."))
	fmt.Println()
	if set.Main != "" {
		fmt.Println(ui.Field("Main", set.Main))
	}
	if set.Helper != "" {
		fmt.Println(ui.Field("Helper", set.Helper))
	}
	fmt.Println(ui.Field("Bundle", set.Bundle))
	fmt.Println(ui.Field("Extensions", set.Extensions))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// confirm asks a yes/no question and defaults to No.
func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&ok).
		Run()
	return ok, err
}
