package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/battlewithbytes/agclone/internal/errs"
)

// BackupSuffix is appended to a settings document that could not be parsed
// before it is replaced.
const BackupSuffix = ".bak"

// settingsJSON decodes numbers as json.Number so unrelated values are
// written back exactly as they were read.
var settingsJSON = sonic.Config{UseNumber: true}.Froze()

// SettingsResult describes what MergeProxySettings did.
type SettingsResult struct {
	Path string
	// Backup is the copy of an unparseable previous document, if one was made.
	Backup string
	// Recovered is the ErrMalformedState failure that caused the backup.
	Recovered error
}

// MergeProxySettings sets the proxy keys of the host application's
// settings document at path, keeping every other key. A document that is
// not a JSON object is copied to <path>.bak and replaced.
func MergeProxySettings(path, proxy string) (*SettingsResult, error) {
	res := &SettingsResult{Path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	case len(bytes.TrimSpace(data)) == 0:
	default:
		err := settingsJSON.Unmarshal(data, &doc)
		if err == nil && doc == nil {
			err = errors.New("not a JSON object")
		}
		if err != nil {
			res.Recovered = errs.Malformed("parse settings", path, err)
			res.Backup = path + BackupSuffix
			if werr := os.WriteFile(res.Backup, data, 0o644); werr != nil {
				return nil, fmt.Errorf("backing up unreadable settings: %w", werr)
			}
			doc = map[string]any{}
		}
	}

	doc["http.proxy"] = proxy
	doc["http.proxyStrictSSL"] = false
	doc["http.proxySupport"] = "on"

	out, err := sonic.ConfigStd.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return nil, err
	}
	return res, nil
}
