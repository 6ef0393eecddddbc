// Package shim replaces the helper and main binaries of a clone with small
// launchers that re-exec the captured original under an instance-specific
// process name, so per-process network rules can tell clones apart.
package shim

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/logging"
)

// Installer writes launchers into clones.
type Installer struct {
	log *zap.Logger
}

// New returns an Installer logging to log.
func New(log *zap.Logger) *Installer {
	return &Installer{log: logging.OrNop(log)}
}

// InstallAll installs every slot in clonePath and returns the resulting
// state per slot name. It stops at the first hard failure.
func (i *Installer) InstallAll(clonePath string) (map[string]State, error) {
	states := make(map[string]State, 2)
	for _, slot := range Slots() {
		st, err := i.Install(clonePath, slot)
		states[slot.Name] = st
		if err != nil {
			return states, err
		}
	}
	return states, nil
}

// Install captures the slot's original binary (once) and writes the
// launcher in its place. Repeating it is harmless: an existing backup is
// never overwritten and the launcher bytes do not change.
//
// A missing slot directory, or a slot with neither binary nor backup, is a
// warning and yields Absent with a nil error.
func (i *Installer) Install(clonePath string, slot Slot) (State, error) {
	bin := slot.Path(clonePath)
	backup := slot.BackupPath(clonePath)
	log := i.log.With(zap.String("slot", slot.Name), zap.String("clone", clonePath))

	if fi, err := os.Stat(filepath.Dir(bin)); err != nil || !fi.IsDir() {
		log.Warn("slot directory not found, skipping", zap.String("dir", filepath.Dir(bin)))
		return Absent, nil
	}

	unlock, err := lockClone(clonePath)
	if err != nil {
		return Absent, errs.IO("lock clone", clonePath, err)
	}
	defer unlock()

	if exists(bin) && !exists(backup) {
		head, err := readHead(bin)
		if err != nil {
			return Absent, errs.IO("read binary", bin, err)
		}
		if isLauncher(head) {
			log.Warn("launcher present without its original, skipping", zap.String("path", bin))
			return Absent, nil
		}
		if err := os.Rename(bin, backup); err != nil {
			return Absent, errs.IO("capture original", bin, err)
		}
		log.Info("captured original binary", zap.String("backup", backup))
	}

	if !exists(backup) {
		log.Warn("no binary to shim", zap.String("path", bin))
		return Absent, nil
	}

	if err := writeLauncher(bin, Script(slot)); err != nil {
		return Captured, errs.IO("write launcher", bin, err)
	}
	log.Debug("launcher installed", zap.String("path", bin))
	return Installed, nil
}

// writeLauncher replaces path with script through a temporary sibling so a
// concurrently starting process never sees a partial file. An identical
// launcher is left untouched.
func writeLauncher(path string, script []byte) error {
	if cur, err := os.ReadFile(path); err == nil && bytes.Equal(cur, script) {
		return os.Chmod(path, 0o755)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(script); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, 256)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}
