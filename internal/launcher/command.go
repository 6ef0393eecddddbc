package launcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/battlewithbytes/agclone/internal/layout"
	"github.com/battlewithbytes/agclone/internal/shim"
)

const openBin = "/usr/bin/open"

// noProxy keeps loopback traffic off the proxy.
const noProxy = "localhost,127.0.0.1"

// proxyVars receive the instance proxy. Tools disagree on casing, so both
// are set.
var proxyVars = []string{
	"HTTP_PROXY", "HTTPS_PROXY", "ALL_PROXY", "GRPC_PROXY",
	"http_proxy", "https_proxy", "all_proxy", "grpc_proxy",
}

// Command is a fully resolved launch.
type Command struct {
	Path string
	Args []string
	// Overrides are the environment entries set on top of the inherited
	// environment.
	Overrides []string
	// Fallback is set when no executable was found and the bundle is
	// opened through LaunchServices instead.
	Fallback bool
	PID      int
}

// Argv returns Path followed by Args.
func (c *Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// ResolveExecutable picks the binary to start inside clonePath: the first
// known candidate that is an executable file, else the first executable
// file by name that is not a shim backup. It returns "" when none exists.
func ResolveExecutable(clonePath string) string {
	dir := filepath.Join(clonePath, filepath.FromSlash(layout.ExecutableDir))
	for _, name := range layout.ExecutableCandidates {
		p := filepath.Join(dir, name)
		if isExecutable(p) {
			return p
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if strings.HasPrefix(n, ".") || strings.HasSuffix(n, shim.BackupSuffix) {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if p := filepath.Join(dir, n); isExecutable(p) {
			return p
		}
	}
	return ""
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

// Args builds the host application arguments for an instance.
func Args(dirs layout.DataDirs, proxy string) []string {
	args := []string{
		"--user-data-dir=" + dirs.UserData,
		"--extensions-dir=" + dirs.Extensions,
	}
	if proxy != "" {
		args = append(args, "--proxy-server="+proxy)
	}
	return args
}

// Build resolves the command for an instance in clonePath.
func Build(clonePath string, dirs layout.DataDirs, name, proxy string) *Command {
	cmd := &Command{
		Args:      Args(dirs, proxy),
		Overrides: Overrides(name, proxy),
	}
	if exe := ResolveExecutable(clonePath); exe != "" {
		cmd.Path = exe
		return cmd
	}
	cmd.Fallback = true
	cmd.Path = openBin
	cmd.Args = append([]string{"-n", "-a", clonePath, "--args"}, cmd.Args...)
	return cmd
}

// Overrides returns the environment entries a launch sets: the identity
// always, the proxy variables only when proxy is non-empty.
func Overrides(name, proxy string) []string {
	out := []string{shim.IdentityEnv(name)}
	if proxy == "" {
		return out
	}
	for _, k := range proxyVars {
		out = append(out, k+"="+proxy)
	}
	return append(out, "NO_PROXY="+noProxy, "no_proxy="+noProxy)
}

// MergeEnv returns base with every key in overrides replaced. Entries of
// base keep their order; overrides are appended.
func MergeEnv(base, overrides []string) []string {
	keys := make(map[string]bool, len(overrides))
	for _, kv := range overrides {
		keys[envKey(kv)] = true
	}
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		if !keys[envKey(kv)] {
			out = append(out, kv)
		}
	}
	return append(out, overrides...)
}

func envKey(kv string) string {
	if i := strings.IndexByte(kv, '='); i >= 0 {
		return kv[:i]
	}
	return kv
}
