package shim

import (
	"path"
	"path/filepath"
)

// Slot is one fixed binary position inside the bundle.
type Slot struct {
	Name    string
	RelPath string // slash-separated, relative to the bundle root
}

var (
	// HelperSlot is the language server spawned by the bundled extension.
	HelperSlot = Slot{Name: "helper", RelPath: "Contents/Resources/app/extensions/antigravity/bin/language_server_macos_arm"}
	// MainSlot is the Electron main process, parent of the updater and renderers.
	MainSlot = Slot{Name: "main", RelPath: "Contents/MacOS/Electron"}
)

// BackupSuffix marks the captured original next to the launcher.
const BackupSuffix = ".original"

// Slots returns both slots in install order.
func Slots() []Slot {
	return []Slot{HelperSlot, MainSlot}
}

// Binary is the file name of the slot's binary.
func (s Slot) Binary() string { return path.Base(s.RelPath) }

// Path is the slot's binary path inside clonePath.
func (s Slot) Path(clonePath string) string {
	return filepath.Join(clonePath, filepath.FromSlash(s.RelPath))
}

// BackupPath is where the original binary lives once captured.
func (s Slot) BackupPath(clonePath string) string {
	return s.Path(clonePath) + BackupSuffix
}

// State is the shim lifecycle of one slot.
type State int

const (
	// Absent: no backup and no launcher.
	Absent State = iota
	// Captured: original moved to the backup, launcher not yet written.
	Captured
	// Installed: backup present and launcher at the original path.
	Installed
)

func (s State) String() string {
	switch s {
	case Captured:
		return "captured"
	case Installed:
		return "installed"
	default:
		return "absent"
	}
}
