package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultHomeName is the directory under the user's home that holds the
	// registry, clones and data unless AGCLONE_HOME_DIR says otherwise.
	DefaultHomeName = "Antigravity_Avatars"

	ConfigFileName  = "config.yml"
	HistoryFileName = "history.db"

	AppsDirName = "apps"
	DataDirName = "data"

	DefaultSourceApp = "/Applications/Antigravity.app"

	// Column widths of the instance list.
	DefaultNameWidth     = 200
	DefaultNoteWidth     = 200
	DefaultLastUsedWidth = 150
)

// sourceCandidates lists known install locations of the host application,
// most preferred first. Overridden in tests.
var sourceCandidates = func() []string {
	c := []string{DefaultSourceApp}
	if home, err := os.UserHomeDir(); err == nil {
		c = append(c, filepath.Join(home, "Applications", "Antigravity.app"))
	}
	return c
}

// DetectSourceApp returns the first known install location that exists, or "".
func DetectSourceApp() string {
	for _, p := range sourceCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultHome returns ~/Antigravity_Avatars.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeName
	}
	return filepath.Join(home, DefaultHomeName)
}

// Default returns the configuration used when no registry document exists yet.
func Default(home string) *Config {
	source := DetectSourceApp()
	if source == "" {
		source = DefaultSourceApp
	}
	return &Config{
		OriginalAppPath: source,
		AppsDir:         filepath.Join(home, AppsDirName),
		DataDir:         filepath.Join(home, DataDirName),
		Instances:       []Instance{},
		ColumnWidths:    defaultColumnWidths(),
	}
}

func defaultColumnWidths() map[string]int {
	return map[string]int{
		"name":      DefaultNameWidth,
		"note":      DefaultNoteWidth,
		"last_used": DefaultLastUsedWidth,
	}
}
