package errs

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestKindsMatch(t *testing.T) {
	err := IO("copy", "/tmp/x", fs.ErrPermission)
	if !errors.Is(err, ErrIOFailure) {
		t.Error("expected ErrIOFailure")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected underlying cause to match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("unexpected ErrNotFound")
	}

	var e *Error
	if !errors.As(err, &e) || e.Path != "/tmp/x" {
		t.Errorf("errors.As = %+v", e)
	}
}

func TestErrorMessage(t *testing.T) {
	err := PathPolicy("sync clone", "/apps/A.app", "outside %s", "/apps")
	msg := err.Error()
	for _, want := range []string{"sync clone", "/apps/A.app", "path policy violation", "outside /apps"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestNilCause(t *testing.T) {
	err := &Error{Kind: ErrMalformedState, Op: "parse"}
	if err.Error() != "parse: malformed state" {
		t.Errorf("got %q", err.Error())
	}
	if !errors.Is(err, ErrMalformedState) {
		t.Error("expected ErrMalformedState")
	}
}
