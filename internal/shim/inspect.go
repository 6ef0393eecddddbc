package shim

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

// SlotStatus describes what is on disk for one slot of a clone.
type SlotStatus struct {
	Slot  Slot
	State State
	// BackupType is the detected MIME type of the captured original.
	BackupType string
	// Identities lists the instance identities materialized next to the
	// backup, e.g. "work" for Electron_work.
	Identities []string
}

// Inspect reports the slot's state without modifying anything.
func Inspect(clonePath string, slot Slot) (SlotStatus, error) {
	st := SlotStatus{Slot: slot, State: Absent}
	bin := slot.Path(clonePath)
	backup := slot.BackupPath(clonePath)
	dir := filepath.Dir(bin)

	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return st, nil
	}
	if !exists(backup) {
		return st, nil
	}

	st.State = Captured
	if head, err := readHead(bin); err == nil && isLauncher(head) {
		st.State = Installed
	}
	if mt, err := mimetype.DetectFile(backup); err == nil {
		st.BackupType = mt.String()
	}

	prefix := slot.Binary() + "_"
	matches, err := doublestar.Glob(os.DirFS(dir), prefix+"*")
	if err != nil {
		return st, err
	}
	for _, m := range matches {
		id := strings.TrimPrefix(m, prefix)
		if id != "" && SanitizeIdentity(id) == id {
			st.Identities = append(st.Identities, id)
		}
	}
	sort.Strings(st.Identities)
	return st, nil
}

// InspectAll returns the status of every slot.
func InspectAll(clonePath string) ([]SlotStatus, error) {
	out := make([]SlotStatus, 0, 2)
	for _, slot := range Slots() {
		st, err := Inspect(clonePath, slot)
		if err != nil {
			return out, err
		}
		out = append(out, st)
	}
	return out, nil
}
