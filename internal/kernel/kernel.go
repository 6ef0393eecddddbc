// Package kernel refreshes a clone from the current source application,
// which is how host updates reach existing instances.
package kernel

import (
	"os"

	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/clone"
	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/logging"
	"github.com/battlewithbytes/agclone/internal/shim"
)

// Syncer replaces clones with fresh copies of the source application.
type Syncer struct {
	clones *clone.Manager
	shims  *shim.Installer
	log    *zap.Logger
}

// New returns a Syncer.
func New(clones *clone.Manager, shims *shim.Installer, log *zap.Logger) *Syncer {
	return &Syncer{clones: clones, shims: shims, log: logging.OrNop(log)}
}

// Result reports a completed sync.
type Result struct {
	Clone  string
	Source string
	Shims  map[string]shim.State
}

// Sync deletes the clone of name, copies the source application in its
// place and reinstalls both shims. The instance's data directory is not
// touched. Nothing is deleted unless the source exists and the clone path
// is a bundle strictly inside the apps directory.
func (s *Syncer) Sync(name string) (*Result, error) {
	source, err := s.clones.ResolveSource()
	if err != nil {
		return nil, err
	}
	path := s.clones.Path(name)
	if err := s.clones.CheckManaged("sync clone", path); err != nil {
		return nil, err
	}
	if err := s.clones.CheckNotNested("sync clone", path, source); err != nil {
		return nil, err
	}

	log := s.log.With(zap.String("instance", name), zap.String("clone", path))
	log.Info("syncing clone with source", zap.String("source", source))

	if err := os.RemoveAll(path); err != nil {
		return nil, errs.IO("remove stale clone", path, err)
	}
	if err := clone.CopyTree(source, path); err != nil {
		return nil, errs.IO("copy source application", path, err)
	}

	states, err := s.shims.InstallAll(path)
	if err != nil {
		return nil, err
	}
	log.Info("sync complete")
	return &Result{Clone: path, Source: source, Shims: states}, nil
}
