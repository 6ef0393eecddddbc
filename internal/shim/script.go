package shim

import (
	"bytes"
	"text/template"
)

// scriptMarker identifies a launcher written by this package.
const scriptMarker = "agclone process identity shim"

// The launcher runs the captured original under <binary>_<identity>.
// Identity copies are refreshed whenever the backup is newer, so a host
// update propagates without cleaning up stale copies. Renaming a signed
// binary breaks its signature and the OS kills it on exec, hence the
// signature strip.
var scriptTmpl = template.Must(template.New("shim").Delims("[[", "]]").Parse(`#!/bin/sh
# ` + scriptMarker + `: [[.Slot]] slot
# Runs [[.Binary]] as [[.Binary]]_<identity> when [[.EnvKey]] is set.
DIR=$(cd "$(dirname "$0")" && pwd)
ORIGINAL="$DIR/[[.Backup]]"
IDENTITY="${[[.EnvKey]]:-}"

if [ -z "$IDENTITY" ]; then
	exec "$ORIGINAL" "$@"
fi

SAFE=$(printf '%s' "$IDENTITY" | LC_ALL=C tr -cd '[:alnum:]_-')
if [ -z "$SAFE" ]; then
	exec "$ORIGINAL" "$@"
fi
TARGET="$DIR/[[.Binary]]_$SAFE"

if [ ! -f "$TARGET" ] || [ "$ORIGINAL" -nt "$TARGET" ]; then
	cp "$ORIGINAL" "$TARGET" || exec "$ORIGINAL" "$@"
	if command -v codesign >/dev/null 2>&1; then
		codesign --remove-signature "$TARGET" 2>/dev/null
	fi
	chmod +x "$TARGET"
fi

exec "$TARGET" "$@"
`))

// Script renders the launcher for slot. The output depends only on the slot.
func Script(slot Slot) []byte {
	var buf bytes.Buffer
	err := scriptTmpl.Execute(&buf, struct {
		Slot, Binary, Backup, EnvKey string
	}{
		Slot:   slot.Name,
		Binary: slot.Binary(),
		Backup: slot.Binary() + BackupSuffix,
		EnvKey: IdentityEnvKey,
	})
	if err != nil {
		// the template and its inputs are fixed
		panic(err)
	}
	return buf.Bytes()
}

// isLauncher reports whether the file content starts like one of our scripts.
func isLauncher(head []byte) bool {
	return bytes.HasPrefix(head, []byte("#!")) && bytes.Contains(head, []byte(scriptMarker))
}
