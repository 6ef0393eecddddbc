package rules

import (
	"testing"

	"github.com/battlewithbytes/agclone/internal/layout"
)

func TestBuild(t *testing.T) {
	clone := "/av/apps/Antigravity-work_1.app"
	dirs := layout.Data("/av/data", "work 1")
	s := Build("work 1", clone, dirs)

	if s.Main != `"Electron_work1"` {
		t.Errorf("Main = %s", s.Main)
	}
	if s.Helper != `"language_server_macos_arm_work1"` {
		t.Errorf("Helper = %s", s.Helper)
	}
	wantBundle := `"/av/apps/Antigravity-work_1.app"; ` +
		`"/av/apps/Antigravity-work_1.app/Contents/Resources/app/extensions/antigravity/bin/language_server_macos_arm"; ` +
		`"/av/apps/Antigravity-work_1.app/*"`
	if s.Bundle != wantBundle {
		t.Errorf("Bundle = %s", s.Bundle)
	}
	if s.Extensions != `"/av/data/work_1/extensions/*"` {
		t.Errorf("Extensions = %s", s.Extensions)
	}

	want := `"Electron_work1"; "language_server_macos_arm_work1"; ` + wantBundle + `; "/av/data/work_1/extensions/*"`
	if got := s.Full(); got != want {
		t.Errorf("Full =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildWithoutProcessNames(t *testing.T) {
	s := Build("工作", "/av/apps/Antigravity-工作.app", layout.Data("/av/data", "工作"))
	if s.Main != "" || s.Helper != "" {
		t.Errorf("process rules = %q, %q; want none", s.Main, s.Helper)
	}
	if got := s.Full(); got != s.Bundle+"; "+s.Extensions {
		t.Errorf("Full = %s", got)
	}
}
