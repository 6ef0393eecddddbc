// Package launcher starts an instance: it prepares the clone and its
// isolated data directories, then spawns the host application detached.
package launcher

import (
	"os"

	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/clone"
	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/layout"
	"github.com/battlewithbytes/agclone/internal/logging"
	"github.com/battlewithbytes/agclone/internal/shim"
)

// Orchestrator launches instances.
type Orchestrator struct {
	cfg     *config.Config
	clones  *clone.Manager
	shims   *shim.Installer
	spawn   Spawner
	environ func() []string
	log     *zap.Logger
}

// New returns an Orchestrator spawning detached processes.
func New(cfg *config.Config, clones *clone.Manager, shims *shim.Installer, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		clones:  clones,
		shims:   shims,
		spawn:   Detached{},
		environ: os.Environ,
		log:     logging.OrNop(log),
	}
}

// WithSpawner replaces the process spawner.
func (o *Orchestrator) WithSpawner(s Spawner) *Orchestrator {
	o.spawn = s
	return o
}

// Result reports what a launch did.
type Result struct {
	Clone   string
	Created bool
	Shims   map[string]shim.State
	Data    layout.DataDirs
	// Settings is set when the proxy was written into the settings document.
	Settings *SettingsResult
	Command  *Command
}

// Launch starts inst. The clone is created on first use and both shim
// slots are (re)installed, so host updates copied in by a kernel sync are
// always wrapped before the process starts.
func (o *Orchestrator) Launch(inst config.Instance) (*Result, error) {
	log := o.log.With(zap.String("instance", inst.Name))
	res := &Result{Clone: o.clones.Path(inst.Name)}

	if o.clones.Exists(inst.Name) {
		states, err := o.shims.InstallAll(res.Clone)
		if err != nil {
			return nil, err
		}
		res.Shims = states
	}

	clonePath, created, err := o.clones.Ensure(inst.Name)
	if err != nil {
		return nil, err
	}
	res.Clone, res.Created = clonePath, created
	if created {
		states, err := o.shims.InstallAll(clonePath)
		if err != nil {
			return nil, err
		}
		res.Shims = states
	}

	res.Data = o.cfg.Data(inst.Name)
	for _, dir := range []string{res.Data.UserData, res.Data.Extensions} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.IO("create data directory", dir, err)
		}
	}

	if inst.Proxy != "" {
		path := layout.SettingsPath(res.Data.UserData)
		settings, err := MergeProxySettings(path, inst.Proxy)
		if err != nil {
			return nil, errs.IO("write proxy settings", path, err)
		}
		if settings.Backup != "" {
			log.Warn("settings document was unreadable and has been replaced",
				zap.String("backup", settings.Backup), zap.Error(settings.Recovered))
		}
		res.Settings = settings
	}

	cmd := Build(clonePath, res.Data, inst.Name, inst.Proxy)
	if cmd.Fallback {
		log.Warn("no executable found in bundle, opening through LaunchServices; environment may not reach the app",
			zap.String("clone", clonePath))
	}

	log.Info("launching", zap.Strings("argv", cmd.Argv()), zap.Bool("proxied", inst.Proxy != ""))
	pid, err := o.spawn.Spawn(cmd.Path, cmd.Args, MergeEnv(o.environ(), cmd.Overrides))
	if err != nil {
		return nil, errs.IO("start application", cmd.Path, err)
	}
	cmd.PID = pid
	res.Command = cmd
	return res, nil
}
