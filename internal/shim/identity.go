package shim

import "strings"

// IdentityEnvKey carries the instance name into the launched process tree.
const IdentityEnvKey = "AG_INSTANCE_NAME"

// IdentityEnv returns the environment entry identifying instance name.
func IdentityEnv(name string) string {
	return IdentityEnvKey + "=" + name
}

// SanitizeIdentity keeps ASCII letters, digits, '_' and '-', the same set the
// launcher keeps with tr in the C locale.
func SanitizeIdentity(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// MaterializedName is the process name the launcher runs slot under for
// identity. It is empty when nothing of identity survives sanitizing, in
// which case the launcher runs the original directly.
func MaterializedName(slot Slot, identity string) string {
	safe := SanitizeIdentity(identity)
	if safe == "" {
		return ""
	}
	return slot.Binary() + "_" + safe
}
