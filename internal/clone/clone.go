// Package clone materializes and removes per-instance copies of the host
// application bundle.
package clone

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/layout"
	"github.com/battlewithbytes/agclone/internal/logging"
)

// Manager creates and removes clones under the configured apps directory.
type Manager struct {
	cfg *config.Config
	log *zap.Logger
}

// New returns a Manager reading paths from cfg.
func New(cfg *config.Config, log *zap.Logger) *Manager {
	return &Manager{cfg: cfg, log: logging.OrNop(log)}
}

// Path returns the clone bundle path of name.
func (m *Manager) Path(name string) string {
	return m.cfg.ClonePath(name)
}

// Exists reports whether the clone of name is present on disk.
func (m *Manager) Exists(name string) bool {
	_, err := os.Lstat(m.Path(name))
	return err == nil
}

// Ensure returns the clone path of name, copying the source application
// there first if it does not exist yet. created reports whether a copy was
// made. A target inside the source application fails with ErrPathPolicy
// before anything is written.
func (m *Manager) Ensure(name string) (clonePath string, created bool, err error) {
	clonePath = m.Path(name)
	if _, err := os.Lstat(clonePath); err == nil {
		return clonePath, false, nil
	}

	source, err := m.ResolveSource()
	if err != nil {
		return "", false, err
	}

	if err := m.CheckNotNested("create clone", clonePath, source); err != nil {
		return "", false, err
	}

	m.log.Info("cloning application", zap.String("source", source), zap.String("target", clonePath))
	if err := CopyTree(source, clonePath); err != nil {
		return "", false, errs.IO("clone application", clonePath, err)
	}
	return clonePath, true, nil
}

// ResolveSource returns the source application path, following it once if
// it is a symbolic link.
func (m *Manager) ResolveSource() (string, error) {
	source := m.cfg.OriginalAppPath
	if _, err := os.Stat(source); err == nil {
		return source, nil
	}

	fi, err := os.Lstat(source)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return "", errs.NotFound("locate source application", source,
			errors.New("set original_app_path to your Antigravity.app"))
	}

	resolved, err := filepath.EvalSymlinks(source)
	if err != nil {
		return "", errs.NotFound("resolve source application link", source, err)
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", errs.NotFound("resolve source application link", resolved, err)
	}
	return resolved, nil
}

// CheckNotNested refuses a copy target inside the source application,
// given as configured or as resolved.
func (m *Manager) CheckNotNested(op, path, source string) error {
	if layout.Within(path, m.cfg.OriginalAppPath) || layout.Within(path, source) {
		return errs.PathPolicy(op, path,
			"cannot create an instance inside the source application %s; move apps_dir elsewhere", m.cfg.OriginalAppPath)
	}
	return nil
}

// CheckManaged refuses destructive operations on anything that is not an
// .app bundle strictly inside the apps directory. A clone path that is a
// symbolic link must resolve inside the apps directory too.
func (m *Manager) CheckManaged(op, path string) error {
	if !layout.StrictlyWithin(path, m.cfg.AppsDir) || !strings.HasSuffix(path, layout.BundleSuffix) {
		return errs.PathPolicy(op, path, "refusing to touch a directory outside the managed root %s", m.cfg.AppsDir)
	}
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errs.PathPolicy(op, path, "cannot resolve symbolic link: %v", err)
	}
	root := m.cfg.AppsDir
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if !layout.StrictlyWithin(target, root) {
		return errs.PathPolicy(op, path, "symbolic link leads to %s, outside the managed root %s", target, m.cfg.AppsDir)
	}
	return nil
}

// Remove deletes the clone of name. It reports false when there was nothing
// to delete.
func (m *Manager) Remove(name string) (bool, error) {
	path := m.Path(name)
	if err := m.CheckManaged("remove clone", path); err != nil {
		return false, err
	}
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, errs.IO("remove clone", path, err)
	}
	os.Remove(path + layout.LockSuffix)
	m.log.Info("removed clone", zap.String("path", path))
	return true, nil
}

// RemoveData deletes the data directory of name, guarded like Remove but
// against the data root.
func (m *Manager) RemoveData(name string) (bool, error) {
	path := m.cfg.Data(name).Root
	if !layout.StrictlyWithin(path, m.cfg.DataDir) {
		return false, errs.PathPolicy("remove data", path, "refusing to touch a directory outside the data root %s", m.cfg.DataDir)
	}
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, errs.IO("remove data", path, fmt.Errorf("deleting %s: %w", path, err))
	}
	m.log.Info("removed data", zap.String("path", path))
	return true, nil
}
