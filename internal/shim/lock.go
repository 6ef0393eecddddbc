package shim

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/battlewithbytes/agclone/internal/layout"
)

// lockClone takes an exclusive advisory lock on <clonePath>.lock, blocking
// until it is available. The lock lives beside the bundle so it survives a
// kernel sync replacing the bundle itself.
func lockClone(clonePath string) (func(), error) {
	f, err := os.OpenFile(clonePath+layout.LockSuffix, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
