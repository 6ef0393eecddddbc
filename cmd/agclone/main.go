package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/engine"
	"github.com/battlewithbytes/agclone/internal/forms"
	"github.com/battlewithbytes/agclone/internal/logging"
	"github.com/battlewithbytes/agclone/internal/ui"
	"github.com/battlewithbytes/agclone/internal/version"
)

var (
	flagHome     string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "agclone",
	Short:         "Manage isolated, separately routable Antigravity instances",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Green.Render("agclone") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Runs several isolated copies of Antigravity.app side by side, each with its own data, extensions, proxy and process names.")

	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "state directory (default $AGCLONE_HOME_DIR or ~/Antigravity_Avatars)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Cross+" "+err.Error())
		os.Exit(1)
	}
}

// loadEnv reads the environment and applies the persistent flags over it.
func loadEnv() (*config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if flagHome != "" {
		env.HomeDir = flagHome
	}
	if flagLogLevel != "" {
		env.LogLevel = flagLogLevel
	}
	return env, nil
}

func newLogger(env *config.Env) (*zap.Logger, error) {
	lc := logging.DefaultConfig()
	lc.Level = env.LogLevel
	lc.Development = env.LogDev
	log, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// loadConfig loads the registry and reports a self-heal of the source path.
// When the source application is still missing and stdin is a terminal,
// the user is asked for its location first.
func loadConfig(env *config.Env) (*config.Config, error) {
	cfg, err := config.Read(env.ConfigPath(), env.HomeDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.HealedFrom != "" {
		fmt.Fprintln(os.Stderr, ui.Warn+" Source application not found at "+cfg.HealedFrom+"; now using "+ui.White.Render(cfg.OriginalAppPath))
	}
	if _, err := os.Stat(cfg.OriginalAppPath); err != nil && interactive() {
		if err := setupSource(cfg, env.ConfigPath()); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setupSource(cfg *config.Config, path string) error {
	answers := forms.SettingsFrom(cfg)
	if err := forms.SetupForm(cfg.OriginalAppPath, answers).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if !answers.Confirmed {
		return nil
	}
	answers.Apply(cfg)
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Println(ui.Check + " Source application set to " + ui.White.Render(cfg.OriginalAppPath))
	return nil
}

func interactive() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// openEngine builds the engine for a command. The caller closes it.
func openEngine() (*engine.Engine, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(env)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(env)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, env.ConfigPath(), env.HistoryPath(), log)
}
