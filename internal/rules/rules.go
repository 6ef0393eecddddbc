// Package rules renders the per-instance match rules for a per-process
// proxy router such as Proxifier.
package rules

import (
	"strconv"
	"strings"

	"github.com/battlewithbytes/agclone/internal/layout"
	"github.com/battlewithbytes/agclone/internal/shim"
)

// Set holds the rules for one instance. Each field is a "; "-separated list
// of quoted targets as the router expects them.
type Set struct {
	// Main matches the shimmed Electron process, which also runs the updater.
	Main string
	// Helper matches the shimmed language server.
	Helper string
	// Bundle matches the clone itself and its helper binary path.
	Bundle string
	// Extensions matches anything started from the isolated extensions dir.
	Extensions string
}

// Build returns the rules for instance name with the given clone bundle and
// data directories. Process-name rules are omitted when the name has no
// characters left after identity sanitizing.
func Build(name, clonePath string, dirs layout.DataDirs) Set {
	var s Set
	if n := shim.MaterializedName(shim.MainSlot, name); n != "" {
		s.Main = quote(n)
	}
	if n := shim.MaterializedName(shim.HelperSlot, name); n != "" {
		s.Helper = quote(n)
	}
	s.Bundle = join(quote(clonePath), quote(shim.HelperSlot.Path(clonePath)), quote(clonePath+"/*"))
	s.Extensions = quote(dirs.Extensions + "/*")
	return s
}

// Full joins every rule, most specific first.
func (s Set) Full() string {
	return join(s.Main, s.Helper, s.Bundle, s.Extensions)
}

func quote(s string) string {
	return strconv.Quote(s)
}

func join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "; ")
}
