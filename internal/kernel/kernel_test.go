package kernel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/battlewithbytes/agclone/internal/clone"
	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/errs"
	"github.com/battlewithbytes/agclone/internal/shim"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) (*Syncer, *clone.Manager, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	app := filepath.Join(dir, "Antigravity.app")
	writeFile(t, shim.MainSlot.Path(app), "v1")
	writeFile(t, shim.HelperSlot.Path(app), "v1")
	cfg := &config.Config{
		OriginalAppPath: app,
		AppsDir:         filepath.Join(dir, "apps"),
		DataDir:         filepath.Join(dir, "data"),
	}
	clones := clone.New(cfg, nil)
	return New(clones, shim.New(nil), nil), clones, cfg
}

func TestSyncReplacesCloneAndKeepsData(t *testing.T) {
	s, clones, cfg := setup(t)
	path, _, err := clones.Ensure("demo")
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(path, "stale"), "x")
	settings := filepath.Join(cfg.Data("demo").UserData, "User", "settings.json")
	writeFile(t, settings, "{}")

	writeFile(t, shim.MainSlot.Path(cfg.OriginalAppPath), "v2")

	res, err := s.Sync("demo")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "stale")); !os.IsNotExist(err) {
		t.Error("stale file survived the sync")
	}
	backup, _ := os.ReadFile(shim.MainSlot.BackupPath(path))
	if string(backup) != "v2" {
		t.Errorf("backup = %q, want the updated binary", backup)
	}
	for _, slot := range shim.Slots() {
		if res.Shims[slot.Name] != shim.Installed {
			t.Errorf("%s = %v", slot.Name, res.Shims[slot.Name])
		}
	}
	if _, err := os.Stat(settings); err != nil {
		t.Error("data directory was touched")
	}
}

func TestSyncMissingSource(t *testing.T) {
	s, clones, cfg := setup(t)
	path, _, _ := clones.Ensure("demo")
	os.RemoveAll(cfg.OriginalAppPath)

	if _, err := s.Sync("demo"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("clone deleted although the source is missing")
	}
}

func TestSyncCreatesMissingClone(t *testing.T) {
	s, clones, _ := setup(t)
	res, err := s.Sync("fresh")
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Clone != clones.Path("fresh") || !clones.Exists("fresh") {
		t.Errorf("clone not created at %q", res.Clone)
	}
}

func TestSyncNestedInSource(t *testing.T) {
	s, _, cfg := setup(t)
	cfg.AppsDir = filepath.Join(cfg.OriginalAppPath, "Contents")
	before, _ := os.ReadDir(cfg.AppsDir)

	if _, err := s.Sync("demo"); !errors.Is(err, errs.ErrPathPolicy) {
		t.Fatalf("err = %v, want ErrPathPolicy", err)
	}
	after, _ := os.ReadDir(cfg.AppsDir)
	if len(before) != len(after) {
		t.Error("source application modified")
	}
}

func TestSyncRefusesCloneOutsideManagedRoot(t *testing.T) {
	s, clones, cfg := setup(t)
	outside := filepath.Join(filepath.Dir(cfg.AppsDir), "elsewhere", "Antigravity-demo.app")
	keep := filepath.Join(outside, "keep")
	writeFile(t, keep, "x")
	if err := os.MkdirAll(cfg.AppsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, clones.Path("demo")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Sync("demo"); !errors.Is(err, errs.ErrPathPolicy) {
		t.Fatalf("err = %v, want ErrPathPolicy", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("directory outside the managed root was modified")
	}
	fi, err := os.Lstat(clones.Path("demo"))
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		t.Error("clone link was removed")
	}
}
