package shim

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// recorder appends "<own file name> <args>" to runs.log next to itself.
const recorder = "#!/bin/sh\nprintf '%s %s\\n' \"$(basename \"$0\")\" \"$*\" >> \"$(dirname \"$0\")/runs.log\"\n"

func newClone(t *testing.T, slots ...Slot) string {
	t.Helper()
	clone := filepath.Join(t.TempDir(), "Antigravity-demo.app")
	for _, s := range slots {
		p := s.Path(clone)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(recorder), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return clone
}

func TestInstallIsIdempotent(t *testing.T) {
	clone := newClone(t, MainSlot)
	in := New(nil)

	st, err := in.Install(clone, MainSlot)
	if err != nil || st != Installed {
		t.Fatalf("first Install = %v, %v", st, err)
	}
	first, _ := os.ReadFile(MainSlot.Path(clone))

	st, err = in.Install(clone, MainSlot)
	if err != nil || st != Installed {
		t.Fatalf("second Install = %v, %v", st, err)
	}
	second, _ := os.ReadFile(MainSlot.Path(clone))
	if !bytes.Equal(first, second) {
		t.Error("launcher changed between installs")
	}
	if !bytes.Equal(second, Script(MainSlot)) {
		t.Error("launcher does not match the rendered script")
	}

	backup, err := os.ReadFile(MainSlot.BackupPath(clone))
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(backup) != recorder {
		t.Error("backup was overwritten by the launcher")
	}

	entries, _ := os.ReadDir(filepath.Dir(MainSlot.Path(clone)))
	var backups int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), BackupSuffix) {
			backups++
		}
	}
	if backups != 1 {
		t.Errorf("backups = %d, want 1", backups)
	}
}

func TestInstallMissingDirectory(t *testing.T) {
	clone := newClone(t, MainSlot)
	st, err := New(nil).Install(clone, HelperSlot)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if st != Absent {
		t.Errorf("state = %v, want absent", st)
	}
}

func TestInstallNoBinary(t *testing.T) {
	clone := newClone(t)
	os.MkdirAll(filepath.Dir(MainSlot.Path(clone)), 0o755)

	st, err := New(nil).Install(clone, MainSlot)
	if err != nil || st != Absent {
		t.Fatalf("Install = %v, %v; want absent, nil", st, err)
	}
	if exists(MainSlot.Path(clone)) {
		t.Error("launcher written without an original to run")
	}
}

func TestInstallRefusesOrphanLauncher(t *testing.T) {
	clone := newClone(t)
	p := MainSlot.Path(clone)
	os.MkdirAll(filepath.Dir(p), 0o755)
	os.WriteFile(p, Script(MainSlot), 0o755)

	st, err := New(nil).Install(clone, MainSlot)
	if err != nil || st != Absent {
		t.Fatalf("Install = %v, %v; want absent, nil", st, err)
	}
	if exists(MainSlot.BackupPath(clone)) {
		t.Error("a launcher was captured as the original")
	}
}

func TestInstallAll(t *testing.T) {
	clone := newClone(t, MainSlot, HelperSlot)
	states, err := New(nil).InstallAll(clone)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range Slots() {
		if states[s.Name] != Installed {
			t.Errorf("%s = %v, want installed", s.Name, states[s.Name])
		}
	}
}

func TestScriptIsSlotSpecific(t *testing.T) {
	main, helper := Script(MainSlot), Script(HelperSlot)
	if bytes.Equal(main, helper) {
		t.Fatal("scripts for different slots are identical")
	}
	if !bytes.Contains(main, []byte(`ORIGINAL="$DIR/Electron.original"`)) {
		t.Errorf("main script does not reference its backup:\n%s", main)
	}
	if !bytes.Contains(helper, []byte(`TARGET="$DIR/language_server_macos_arm_$SAFE"`)) {
		t.Errorf("helper script has wrong target:\n%s", helper)
	}
	if !bytes.Contains(main, []byte(`"${AG_INSTANCE_NAME:-}"`)) {
		t.Error("script does not read the identity variable")
	}
}

func TestMaterializedName(t *testing.T) {
	tests := []struct {
		identity, want string
	}{
		{"work", "Electron_work"},
		{"my work!", "Electron_mywork"},
		{"a.b", "Electron_ab"},
		{"工作", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaterializedName(MainSlot, tt.identity); got != tt.want {
			t.Errorf("MaterializedName(%q) = %q, want %q", tt.identity, got, tt.want)
		}
	}
}

func TestIdentityEnv(t *testing.T) {
	if got := IdentityEnv("demo"); got != "AG_INSTANCE_NAME=demo" {
		t.Errorf("IdentityEnv = %q", got)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no POSIX shell available")
	}
}

func runLauncher(t *testing.T, clone string, env ...string) {
	t.Helper()
	cmd := exec.Command(MainSlot.Path(clone), "a", "b")
	cmd.Env = append(os.Environ(), env...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("launcher failed: %v\n%s", err, out)
	}
}

func readRuns(t *testing.T, clone string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(MainSlot.Path(clone)), "runs.log"))
	if err != nil {
		t.Fatalf("reading runs.log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestLauncherRunsUnderIdentity(t *testing.T) {
	requireShell(t)
	clone := newClone(t, MainSlot)
	if _, err := New(nil).Install(clone, MainSlot); err != nil {
		t.Fatal(err)
	}

	runLauncher(t, clone, "AG_INSTANCE_NAME=my work!")
	runLauncher(t, clone, "AG_INSTANCE_NAME=my work!")

	runs := readRuns(t, clone)
	if len(runs) != 2 {
		t.Fatalf("runs = %q", runs)
	}
	for _, r := range runs {
		if r != "Electron_mywork a b" {
			t.Errorf("run = %q, want %q", r, "Electron_mywork a b")
		}
	}

	st, err := Inspect(clone, MainSlot)
	if err != nil {
		t.Fatal(err)
	}
	if st.State != Installed {
		t.Errorf("state = %v", st.State)
	}
	if len(st.Identities) != 1 || st.Identities[0] != "mywork" {
		t.Errorf("identities = %q, want [mywork]", st.Identities)
	}
	if !strings.HasPrefix(st.BackupType, "text/") {
		t.Errorf("backup type = %q", st.BackupType)
	}
}

func TestLauncherWithoutIdentityRunsOriginal(t *testing.T) {
	requireShell(t)
	clone := newClone(t, MainSlot)
	if _, err := New(nil).Install(clone, MainSlot); err != nil {
		t.Fatal(err)
	}

	runLauncher(t, clone, "AG_INSTANCE_NAME=")
	runLauncher(t, clone, "AG_INSTANCE_NAME=***")

	for _, r := range readRuns(t, clone) {
		if r != "Electron.original a b" {
			t.Errorf("run = %q, want the original", r)
		}
	}
}

func TestLauncherRefreshesStaleCopy(t *testing.T) {
	requireShell(t)
	clone := newClone(t, MainSlot)
	if _, err := New(nil).Install(clone, MainSlot); err != nil {
		t.Fatal(err)
	}
	runLauncher(t, clone, "AG_INSTANCE_NAME=demo")

	// simulate a host update replacing the original
	backup := MainSlot.BackupPath(clone)
	updated := recorder + "# v2\n"
	if err := os.WriteFile(backup, []byte(updated), 0o755); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	os.Chtimes(backup, future, future)

	runLauncher(t, clone, "AG_INSTANCE_NAME=demo")

	copied, err := os.ReadFile(filepath.Join(filepath.Dir(backup), "Electron_demo"))
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != updated {
		t.Error("identity copy was not refreshed from the newer original")
	}
}

func TestInspectAbsent(t *testing.T) {
	clone := newClone(t, MainSlot)
	sts, err := InspectAll(clone)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range sts {
		if st.State != Absent {
			t.Errorf("%s = %v before install", st.Slot.Name, st.State)
		}
	}
}
