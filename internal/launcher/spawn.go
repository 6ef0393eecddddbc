package launcher

import (
	"os/exec"
	"syscall"
)

// Spawner starts a process and returns without waiting for it.
type Spawner interface {
	Spawn(path string, args, env []string) (pid int, err error)
}

// Detached starts processes in their own session with no stdio attached,
// so they outlive the CLI and ignore its terminal's signals.
type Detached struct{}

// Spawn implements Spawner.
func (Detached) Spawn(path string, args, env []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	cmd.Process.Release()
	return pid, nil
}
