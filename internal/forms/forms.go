// Package forms holds the interactive terminal forms used by the commands.
package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/agclone/internal/config"
)

// InstanceForm builds the create/edit form. When existing is non-nil the
// name is fixed and only note and proxy are asked for.
func InstanceForm(answers *InstanceAnswers, existing *config.Instance, taken func(string) bool) *huh.Form {
	if existing != nil {
		answers.Name = existing.Name
		answers.Note = existing.Note
		answers.Proxy = existing.Proxy
	}
	answers.Confirmed = true

	groups := []*huh.Group{
		nameGroup(answers, taken).WithHideFunc(func() bool { return existing != nil }),
		detailsGroup(answers, existing),
	}
	return huh.NewForm(groups...).WithTheme(huh.ThemeCatppuccin())
}

func nameGroup(answers *InstanceAnswers, taken func(string) bool) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Instance name").
			Description("For example US-Project-01. Used for the clone, its data and its process names.").
			Value(&answers.Name).
			Validate(ValidateName(taken)),
	)
}

func detailsGroup(answers *InstanceAnswers, existing *config.Instance) *huh.Group {
	title := "New instance"
	if existing != nil {
		title = fmt.Sprintf("Edit %s", existing.Name)
	}
	return huh.NewGroup(
		huh.NewNote().
			Title(title),
		huh.NewInput().
			Title("Note").
			Description("Optional.").
			Value(&answers.Note),
		huh.NewInput().
			Title("Proxy").
			Description("Optional, SOCKS5 recommended, e.g. socks5://127.0.0.1:7890.\nInjected into the app on every launch.").
			Value(&answers.Proxy).
			Validate(ValidateProxy),
		huh.NewConfirm().
			Title("Save?").
			Value(&answers.Confirmed),
	)
}

// SettingsForm builds the form editing the three configured paths.
func SettingsForm(answers *SettingsAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source application").
				Description("The Antigravity.app every instance is cloned from.").
				Value(&answers.OriginalAppPath).
				Validate(ValidateAppBundle),
			huh.NewInput().
				Title("Instance storage").
				Description("Where clones are created. May be on an external disk.").
				Value(&answers.AppsDir).
				Validate(ValidateAppsDir(&answers.OriginalAppPath)),
			huh.NewInput().
				Title("Data storage").
				Description("Where each instance keeps its user data and extensions.").
				Value(&answers.DataDir).
				Validate(ValidateDir),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save settings?").
				Value(&answers.Confirmed),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// DeleteForm asks to confirm deleting name and whether to keep its data.
func DeleteForm(name string, deleteData, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete instance %s?", name)).
				Description("The cloned application is removed.").
				Value(confirmed),
			huh.NewConfirm().
				Title("Also delete its user data and extensions?").
				Value(deleteData),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// SetupForm asks whether to point the tool at a source application when
// none was found. answers.Confirmed reports the choice.
func SetupForm(missing string, answers *SettingsAnswers) *huh.Form {
	answers.Confirmed = true
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Source application not found").
				Description(fmt.Sprintf("No Antigravity.app at %s.\nIt is either not installed or configured with the wrong path.", missing)),
			huh.NewConfirm().
				Title("Set the path now?").
				Value(&answers.Confirmed),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Source application").
				Value(&answers.OriginalAppPath).
				Validate(ValidateAppBundle),
		).WithHideFunc(func() bool { return !answers.Confirmed }),
	).WithTheme(huh.ThemeCatppuccin())
}
