package forms

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/battlewithbytes/agclone/internal/config"
	"github.com/battlewithbytes/agclone/internal/layout"
)

// InstanceAnswers holds the raw values of the instance form.
type InstanceAnswers struct {
	Name  string
	Note  string
	Proxy string

	Confirmed bool
}

// Normalize trims surrounding whitespace from every field.
func (a *InstanceAnswers) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)
	a.Proxy = strings.TrimSpace(a.Proxy)
}

// SettingsAnswers holds the raw values of the settings form.
type SettingsAnswers struct {
	OriginalAppPath string
	AppsDir         string
	DataDir         string

	Confirmed bool
}

// SettingsFrom prefills answers from cfg.
func SettingsFrom(cfg *config.Config) *SettingsAnswers {
	return &SettingsAnswers{
		OriginalAppPath: cfg.OriginalAppPath,
		AppsDir:         cfg.AppsDir,
		DataDir:         cfg.DataDir,
	}
}

// Apply copies the answers into cfg, expanding a leading ~ in every path.
func (a *SettingsAnswers) Apply(cfg *config.Config) {
	cfg.OriginalAppPath = ExpandHome(strings.TrimSpace(a.OriginalAppPath))
	cfg.AppsDir = ExpandHome(strings.TrimSpace(a.AppsDir))
	cfg.DataDir = ExpandHome(strings.TrimSpace(a.DataDir))
}

// proxySchemes are the proxy URL schemes the host application understands.
var proxySchemes = map[string]bool{
	"http": true, "https": true, "socks4": true, "socks5": true, "socks5h": true,
}

// ValidateName returns nil if s can name a new instance. taken reports
// names that would reuse a registered instance's directories; it may be nil.
func ValidateName(taken func(string) bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if err := config.ValidateName(s); err != nil {
			return err
		}
		if taken != nil && taken(s) {
			return fmt.Errorf("%q is already used by an existing instance", s)
		}
		return nil
	}
}

// ValidateProxy returns nil if s is empty or a proxy URL with a supported
// scheme and a host:port.
func ValidateProxy(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("not a URL")
	}
	if !proxySchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("scheme must be one of http, https, socks4, socks5, socks5h")
	}
	if _, port, err := net.SplitHostPort(u.Host); err != nil || port == "" || u.Hostname() == "" {
		return fmt.Errorf("must include host and port, e.g. socks5://127.0.0.1:7890")
	}
	return nil
}

// ValidateAppBundle returns nil if s is an existing .app directory.
func ValidateAppBundle(s string) error {
	p := ExpandHome(strings.TrimSpace(s))
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !strings.HasSuffix(p, layout.BundleSuffix) {
		return fmt.Errorf("must be an .app bundle")
	}
	fi, err := os.Stat(p)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("no application bundle at %s", p)
	}
	return nil
}

// ValidateDir returns nil if s is a usable directory path. It need not exist.
func ValidateDir(s string) error {
	p := ExpandHome(strings.TrimSpace(s))
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", p)
	}
	return nil
}

// ValidateAppsDir is ValidateDir plus a check that the directory is not
// inside the source application.
func ValidateAppsDir(source *string) func(string) error {
	return func(s string) error {
		if err := ValidateDir(s); err != nil {
			return err
		}
		src := ExpandHome(strings.TrimSpace(*source))
		if src != "" && layout.Within(ExpandHome(strings.TrimSpace(s)), src) {
			return fmt.Errorf("cannot be inside the source application")
		}
		return nil
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
