// Package engine is the single entry point the commands use. It ties the
// instance registry to the clone, shim, launch and sync operations and
// records every operation in a local history database.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/battlewithbytes/agclone/internal/clone"
	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/kernel"
	"github.com/battlewithbytes/agclone/internal/launcher"
	"github.com/battlewithbytes/agclone/internal/logging"
	"github.com/battlewithbytes/agclone/internal/rules"
	"github.com/battlewithbytes/agclone/internal/shim"
)

// Engine owns the loaded registry and the components operating on it.
type Engine struct {
	cfg      *config.Config
	cfgPath  string
	store    *Store
	clones   *clone.Manager
	shims    *shim.Installer
	launcher *launcher.Orchestrator
	syncer   *kernel.Syncer
	log      *zap.Logger
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSpawner replaces the process spawner used by Launch.
func WithSpawner(s launcher.Spawner) Option {
	return func(e *Engine) { e.launcher.WithSpawner(s) }
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine over cfg, persisting it to cfgPath and recording
// history in the SQLite database at historyPath.
func New(cfg *config.Config, cfgPath, historyPath string, log *zap.Logger, opts ...Option) (*Engine, error) {
	log = logging.OrNop(log)
	if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	store, err := NewStore(historyPath)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	clones := clone.New(cfg, log)
	shims := shim.New(log)
	e := &Engine{
		cfg:      cfg,
		cfgPath:  cfgPath,
		store:    store,
		clones:   clones,
		shims:    shims,
		launcher: launcher.New(cfg, clones, shims, log),
		syncer:   kernel.New(clones, shims, log),
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close closes the history database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Config returns the live registry.
func (e *Engine) Config() *config.Config { return e.cfg }

// ConfigPath returns where the registry is saved.
func (e *Engine) ConfigPath() string { return e.cfgPath }

// Instances returns the registered instances, most recently used first.
func (e *Engine) Instances() []config.Instance {
	return e.cfg.ByLastUsed()
}

// Instance returns the named instance or an ErrNotFound failure.
func (e *Engine) Instance(name string) (config.Instance, error) {
	inst, ok := e.cfg.Get(name)
	if !ok {
		return inst, errs.NotFound("look up instance", "", fmt.Errorf("%w: %s", config.ErrUnknown, name))
	}
	return inst, nil
}

// InstanceInput is what a user supplies for a new instance.
type InstanceInput struct {
	Name  string
	Note  string
	Proxy string
}

// CreateInstance registers a new instance and materializes its clone. The
// registry is only changed once the clone exists, so a failure leaves it
// as it was.
func (e *Engine) CreateInstance(in InstanceInput) (inst config.Instance, err error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Proxy = strings.TrimSpace(in.Proxy)
	start := e.now()
	detail := map[string]string{}
	defer func() { e.record(in.Name, ActionCreate, start, detail, err) }()

	if err := config.ValidateName(in.Name); err != nil {
		return inst, err
	}
	if prev, ok := e.cfg.Conflict(in.Name); ok {
		if prev.Name == in.Name {
			return inst, fmt.Errorf("%w: %s", config.ErrDuplicate, in.Name)
		}
		return inst, fmt.Errorf("%w: %s would share the clone and data of %s", config.ErrDuplicate, in.Name, prev.Name)
	}

	clonePath, created, err := e.clones.Ensure(in.Name)
	if err != nil {
		return inst, err
	}
	detail["clone"] = clonePath
	if !created {
		return inst, fmt.Errorf("%w: %s exists but belongs to no registered instance; remove it first", config.ErrDuplicate, clonePath)
	}

	inst = config.Instance{Name: in.Name, Note: in.Note, Proxy: in.Proxy, CreatedAt: e.now()}
	if err := e.cfg.Add(inst); err != nil {
		return inst, err
	}
	if err := e.cfg.Save(e.cfgPath); err != nil {
		e.cfg.Remove(in.Name)
		return inst, err
	}
	return inst, nil
}

// UpdateInstance changes the mutable fields of an instance.
func (e *Engine) UpdateInstance(name string, upd config.InstanceUpdate) (err error) {
	start := e.now()
	detail := map[string]string{}
	defer func() { e.record(name, ActionUpdate, start, detail, err) }()

	prev, err := e.Instance(name)
	if err != nil {
		return err
	}
	if upd.Proxy != nil {
		p := strings.TrimSpace(*upd.Proxy)
		upd.Proxy = &p
		detail["proxy"] = p
	}
	if upd.Note != nil {
		detail["note"] = *upd.Note
	}
	if err := e.cfg.Update(name, upd); err != nil {
		return err
	}
	if err := e.cfg.Save(e.cfgPath); err != nil {
		e.cfg.Update(name, config.InstanceUpdate{Note: &prev.Note, Proxy: &prev.Proxy, LastUsed: &prev.LastUsed})
		return err
	}
	return nil
}

// DeleteResult reports what DeleteInstance removed.
type DeleteResult struct {
	CloneRemoved bool
	DataRemoved  bool
}

// DeleteInstance removes the clone of name and, when deleteData is set, its
// data directory and earlier history, then unregisters it. Both removals are
// refused outside their managed roots.
func (e *Engine) DeleteInstance(name string, deleteData bool) (res *DeleteResult, err error) {
	start := e.now()
	detail := map[string]string{"delete_data": fmt.Sprint(deleteData)}
	defer func() { e.record(name, ActionDelete, start, detail, err) }()

	if _, err := e.Instance(name); err != nil {
		return nil, err
	}
	res = &DeleteResult{}
	if res.CloneRemoved, err = e.clones.Remove(name); err != nil {
		return res, err
	}
	if deleteData {
		if res.DataRemoved, err = e.clones.RemoveData(name); err != nil {
			return res, err
		}
		if n, err := e.store.DeleteEvents(name); err != nil {
			e.log.Warn("could not clear history", zap.String("instance", name), zap.Error(err))
		} else {
			detail["events_cleared"] = fmt.Sprint(n)
		}
	}
	e.cfg.Remove(name)
	if err := e.cfg.Save(e.cfgPath); err != nil {
		return res, err
	}
	return res, nil
}

// Launch starts the named instance and records it as most recently used.
func (e *Engine) Launch(name string) (res *launcher.Result, err error) {
	start := e.now()
	detail := map[string]string{}
	defer func() { e.record(name, ActionLaunch, start, detail, err) }()

	inst, err := e.Instance(name)
	if err != nil {
		return nil, err
	}
	res, err = e.launcher.Launch(inst)
	if err != nil {
		return nil, err
	}
	detail["pid"] = fmt.Sprint(res.Command.PID)
	detail["executable"] = res.Command.Path
	if res.Created {
		detail["created"] = "true"
	}

	used := e.now()
	if err := e.cfg.Update(name, config.InstanceUpdate{LastUsed: &used}); err != nil {
		return res, err
	}
	if err := e.cfg.Save(e.cfgPath); err != nil {
		// the process is already running
		e.log.Warn("could not record last use", zap.Error(err))
	}
	return res, nil
}

// SyncKernel replaces the clone of name with a fresh copy of the source.
func (e *Engine) SyncKernel(name string) (res *kernel.Result, err error) {
	start := e.now()
	detail := map[string]string{}
	defer func() { e.record(name, ActionSync, start, detail, err) }()

	if _, err := e.Instance(name); err != nil {
		return nil, err
	}
	res, err = e.syncer.Sync(name)
	if err != nil {
		return nil, err
	}
	detail["source"] = res.Source
	return res, nil
}

// Status describes the on-disk state of an instance.
type Status struct {
	Instance    config.Instance
	ClonePath   string
	CloneExists bool
	DataPath    string
	DataExists  bool
	Slots       []shim.SlotStatus
}

// Status inspects the named instance without changing anything.
func (e *Engine) Status(name string) (*Status, error) {
	inst, err := e.Instance(name)
	if err != nil {
		return nil, err
	}
	st := &Status{
		Instance:    inst,
		ClonePath:   e.clones.Path(name),
		CloneExists: e.clones.Exists(name),
		DataPath:    e.cfg.Data(name).Root,
	}
	if _, err := os.Stat(st.DataPath); err == nil {
		st.DataExists = true
	}
	if st.CloneExists {
		if st.Slots, err = shim.InspectAll(st.ClonePath); err != nil {
			return st, err
		}
	}
	return st, nil
}

// Rules returns the proxy router rules of the named instance. The clone
// must exist, since the rules name paths inside it.
func (e *Engine) Rules(name string) (rules.Set, error) {
	if _, err := e.Instance(name); err != nil {
		return rules.Set{}, err
	}
	clonePath := e.clones.Path(name)
	if !e.clones.Exists(name) {
		return rules.Set{}, errs.NotFound("build rules", clonePath, errors.New("the clone has not been created yet; launch the instance first"))
	}
	return rules.Build(name, clonePath, e.cfg.Data(name)), nil
}

// History returns recorded events for name (all instances when empty).
func (e *Engine) History(name string, limit int) ([]*Event, error) {
	return e.store.ListEvents(name, limit)
}

// record stores the outcome of an operation. History is best effort: a
// failure to write it is logged, never returned.
func (e *Engine) record(name, action string, start time.Time, detail map[string]string, opErr error) {
	ev := &Event{
		ID:        uuid.NewString(),
		Instance:  name,
		Action:    action,
		Detail:    detail,
		Duration:  e.now().Sub(start),
		CreatedAt: start,
	}
	if opErr != nil {
		ev.Error = opErr.Error()
	}
	if err := e.store.RecordEvent(ev); err != nil {
		e.log.Warn("could not record history", zap.String("action", action), zap.Error(err))
	}
}
