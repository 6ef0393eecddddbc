package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/forms"
	"github.com/battlewithbytes/agclone/internal/ui"
)

const columnKeyPrefix = "column_widths."

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify agclone settings",
}

// readConfig loads the document without validating it, so a broken
// setting can still be repaired.
func readConfig() (*config.Config, string, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, "", err
	}
	path := env.ConfigPath()
	cfg, err := config.Read(path, env.HomeDir)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func saveConfig(cfg *config.Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Println(ui.Check + " Saved " + path)
	return nil
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Println(ui.Cyan.Render("Source:    ") + ui.White.Render(cfg.OriginalAppPath))
		fmt.Println(ui.Cyan.Render("Clones:    ") + ui.White.Render(cfg.AppsDir))
		fmt.Println(ui.Cyan.Render("Data:      ") + ui.White.Render(cfg.DataDir))
		fmt.Println(ui.Cyan.Render("Instances: ") + ui.White.Render(strconv.Itoa(len(cfg.Instances))))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Column widths:"))
		keys := make([]string, 0, len(cfg.ColumnWidths))
		for k := range cfg.ColumnWidths {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Println(ui.Dim.Render("  "+k+": ") + ui.White.Render(strconv.Itoa(cfg.ColumnWidths[k])))
		}
		fmt.Println()
		if err := cfg.Validate(); err != nil {
			fmt.Println(ui.Warn + " " + err.Error())
		}
		fmt.Println(ui.Dim.Render("Config file: " + path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set original_app_path, apps_dir, data_dir or column_widths.<column>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		key, value := args[0], strings.TrimSpace(args[1])
		switch {
		case key == "original_app_path":
			if err := forms.ValidateAppBundle(value); err != nil {
				return err
			}
			cfg.OriginalAppPath = forms.ExpandHome(value)
		case key == "apps_dir":
			if err := forms.ValidateAppsDir(&cfg.OriginalAppPath)(value); err != nil {
				return err
			}
			cfg.AppsDir = forms.ExpandHome(value)
		case key == "data_dir":
			if err := forms.ValidateDir(value); err != nil {
				return err
			}
			cfg.DataDir = forms.ExpandHome(value)
		case strings.HasPrefix(key, columnKeyPrefix):
			col := strings.TrimPrefix(key, columnKeyPrefix)
			if _, ok := cfg.ColumnWidths[col]; !ok {
				return fmt.Errorf("unknown column %q", col)
			}
			w, err := strconv.Atoi(value)
			if err != nil || w <= 0 {
				return fmt.Errorf("width must be a positive integer")
			}
			cfg.ColumnWidths[col] = w
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		return saveConfig(cfg, path)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configured paths interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		answers := forms.SettingsFrom(cfg)
		if err := forms.SettingsForm(answers).Run(); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		if !answers.Confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
		answers.Apply(cfg)
		if err := saveConfig(cfg, path); err != nil {
			return err
		}
		fmt.Println(ui.Dim.Render("  Existing clones stay where they are; move them by hand if apps_dir changed."))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		fmt.Println(env.ConfigPath())
		return nil
	},
}
