// Package config holds the instance registry: global path settings plus the
// ordered list of instances, persisted as one YAML document.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/battlewithbytes/agclone/internal/layout"
)

// ErrDuplicate is returned by Add when the name is already registered.
var ErrDuplicate = errors.New("instance already exists")

// ErrUnknown is returned when a name is not registered.
var ErrUnknown = errors.New("instance not found")

// Config is the registry document written to config.yml.
type Config struct {
	OriginalAppPath string         `yaml:"original_app_path"`
	AppsDir         string         `yaml:"apps_dir"`
	DataDir         string         `yaml:"data_dir"`
	Instances       []Instance     `yaml:"instances"`
	ColumnWidths    map[string]int `yaml:"column_widths"`

	// HealedFrom is set by Load when an invalid source path was replaced by
	// a detected install location.
	HealedFrom string `yaml:"-"`
}

// Instance is one managed clone.
type Instance struct {
	Name      string    `yaml:"name"`
	Note      string    `yaml:"note"`
	Proxy     string    `yaml:"proxy_url"`
	CreatedAt time.Time `yaml:"created_at"`
	LastUsed  time.Time `yaml:"last_used,omitempty"`
}

// InstanceUpdate enumerates the mutable instance fields. Nil means unchanged.
type InstanceUpdate struct {
	Note     *string
	Proxy    *string
	LastUsed *time.Time
}

// Env is process-level configuration read from AGCLONE_* variables.
type Env struct {
	HomeDir  string `envconfig:"HOME_DIR"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"true"`
}

// LoadEnv reads AGCLONE_HOME_DIR, AGCLONE_LOG_LEVEL and AGCLONE_LOG_DEV.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("agclone", &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if env.HomeDir == "" {
		env.HomeDir = DefaultHome()
	}
	return &env, nil
}

// ConfigPath is the registry document inside home.
func (e *Env) ConfigPath() string { return filepath.Join(e.HomeDir, ConfigFileName) }

// HistoryPath is the history database inside home.
func (e *Env) HistoryPath() string { return filepath.Join(e.HomeDir, HistoryFileName) }

// Load reads the registry at path, layering it over the defaults for home.
// A missing file yields the defaults. If the stored source application path
// is invalid but a known install location exists, the stored value is
// replaced and the document saved.
func Load(path, home string) (*Config, error) {
	cfg, err := Read(path, home)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation, for commands that repair the document.
func Read(path, home string) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Instances == nil {
		cfg.Instances = []Instance{}
	}
	if cfg.ColumnWidths == nil {
		cfg.ColumnWidths = defaultColumnWidths()
	}

	if cfg.heal() {
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("saving healed config: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) heal() bool {
	if c.OriginalAppPath != "" {
		if _, err := os.Stat(c.OriginalAppPath); err == nil {
			return false
		}
	}
	detected := DetectSourceApp()
	if detected == "" || detected == c.OriginalAppPath {
		return false
	}
	c.HealedFrom = c.OriginalAppPath
	c.OriginalAppPath = detected
	return true
}

// Validate checks the fields every operation relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OriginalAppPath) == "" {
		return fmt.Errorf("original_app_path is required")
	}
	if strings.TrimSpace(c.AppsDir) == "" {
		return fmt.Errorf("apps_dir is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if layout.Within(c.AppsDir, c.OriginalAppPath) {
		return fmt.Errorf("apps_dir %s must not be inside the source application %s", c.AppsDir, c.OriginalAppPath)
	}

	seen := make(map[string]string, len(c.Instances))
	for _, inst := range c.Instances {
		if err := ValidateName(inst.Name); err != nil {
			return fmt.Errorf("instance %q: %w", inst.Name, err)
		}
		key := layout.Sanitize(inst.Name)
		if prev, ok := seen[key]; ok {
			if prev == inst.Name {
				return fmt.Errorf("instance %q listed twice", inst.Name)
			}
			return fmt.Errorf("instances %q and %q map to the same directories", prev, inst.Name)
		}
		seen[key] = inst.Name
	}
	return nil
}

// ValidateName rejects names that are empty or whose sanitized form would
// not name a directory of its own.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	switch layout.Sanitize(name) {
	case ".", "..":
		return fmt.Errorf("name %q is reserved", name)
	}
	return nil
}

// Save writes the whole document, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns a copy of the named instance.
func (c *Config) Get(name string) (Instance, bool) {
	for _, inst := range c.Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}

// Conflict returns the registered instance whose sanitized name equals
// that of name, i.e. the one whose clone and data directories name would
// use.
func (c *Config) Conflict(name string) (Instance, bool) {
	key := layout.Sanitize(name)
	for _, inst := range c.Instances {
		if layout.Sanitize(inst.Name) == key {
			return inst, true
		}
	}
	return Instance{}, false
}

// Add appends a new instance. The caller persists with Save.
func (c *Config) Add(inst Instance) error {
	if err := ValidateName(inst.Name); err != nil {
		return err
	}
	if prev, ok := c.Conflict(inst.Name); ok {
		if prev.Name == inst.Name {
			return fmt.Errorf("%w: %s", ErrDuplicate, inst.Name)
		}
		return fmt.Errorf("%w: %s uses the same directories as %s", ErrDuplicate, inst.Name, prev.Name)
	}
	c.Instances = append(c.Instances, inst)
	return nil
}

// Remove drops the named instance and reports whether it was present.
func (c *Config) Remove(name string) bool {
	filtered := c.Instances[:0]
	found := false
	for _, inst := range c.Instances {
		if inst.Name == name {
			found = true
			continue
		}
		filtered = append(filtered, inst)
	}
	c.Instances = filtered
	return found
}

// Update applies the non-nil fields of upd to the named instance.
func (c *Config) Update(name string, upd InstanceUpdate) error {
	for i := range c.Instances {
		if c.Instances[i].Name != name {
			continue
		}
		if upd.Note != nil {
			c.Instances[i].Note = *upd.Note
		}
		if upd.Proxy != nil {
			c.Instances[i].Proxy = *upd.Proxy
		}
		if upd.LastUsed != nil {
			c.Instances[i].LastUsed = *upd.LastUsed
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknown, name)
}

// ByLastUsed returns the instances most recently used first.
func (c *Config) ByLastUsed() []Instance {
	out := make([]Instance, len(c.Instances))
	copy(out, c.Instances)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUsed.After(out[j].LastUsed)
	})
	return out
}

// ClonePath derives the clone bundle path of name.
func (c *Config) ClonePath(name string) string { return layout.ClonePath(c.AppsDir, name) }

// Data derives the data directories of name.
func (c *Config) Data(name string) layout.DataDirs { return layout.Data(c.DataDir, name) }
