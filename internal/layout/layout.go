// Package layout derives every on-disk location of an instance from its name
// and the configured roots. All functions here are pure.
package layout

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Bundle-relative locations inside an Antigravity.app clone.
const (
	BundlePrefix = "Antigravity-"
	BundleSuffix = ".app"
	// LockSuffix names the sibling file serializing shim installs on a clone.
	LockSuffix = ".lock"

	ExecutableDir = "Contents/MacOS"

	UserDataDir   = "user_data"
	ExtensionsDir = "extensions"

	// SettingsFile is relative to the instance's user_data directory.
	SettingsFile = "User/settings.json"
)

// ExecutableCandidates are tried in order inside ExecutableDir before
// falling back to the first executable file found there.
var ExecutableCandidates = []string{"Electron", "Antigravity"}

// Sanitize maps a free-form instance name onto a filesystem-safe name.
// Letters, digits, '_', '-' and '.' are kept; every other rune becomes '_'.
// It is total and idempotent.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if safeRune(r) {
			return r
		}
		return '_'
	}, name)
}

func safeRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

// ClonePath returns <appsDir>/Antigravity-<sanitized>.app.
func ClonePath(appsDir, name string) string {
	return filepath.Join(appsDir, BundlePrefix+Sanitize(name)+BundleSuffix)
}

// DataPath returns the per-instance data root <dataDir>/<sanitized>.
func DataPath(dataDir, name string) string {
	return filepath.Join(dataDir, Sanitize(name))
}

// DataDirs is the isolated user-data/extensions pair handed to a launch.
type DataDirs struct {
	Root       string
	UserData   string
	Extensions string
}

// Data returns the DataDirs for name under dataDir.
func Data(dataDir, name string) DataDirs {
	root := DataPath(dataDir, name)
	return DataDirs{
		Root:       root,
		UserData:   filepath.Join(root, UserDataDir),
		Extensions: filepath.Join(root, ExtensionsDir),
	}
}

// SettingsPath returns the host application's settings document for a
// user_data directory.
func SettingsPath(userData string) string {
	return filepath.Join(userData, filepath.FromSlash(SettingsFile))
}

// Within reports whether path is lexically equal to or nested under root.
// Both are made absolute and cleaned first; no symlinks are resolved.
func Within(path, root string) bool {
	p, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	r, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(r, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// StrictlyWithin is Within without the equality case.
func StrictlyWithin(path, root string) bool {
	return Within(path, root) && filepath.Clean(mustAbs(path)) != filepath.Clean(mustAbs(root))
}

func mustAbs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}
