package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/merijn/sync-history/internal/ports"
)

// DaemonArgv0 names the candidate daemon in process listings.
const DaemonArgv0 = "sync-historyd"

var _ ports.Launcher = (*Process)(nil)

// Process launches a daemon candidate and waits for it to exit. The
// candidate only returns once the daemon address is bound (or was already
// bound by someone else), so a successful Launch means a retry can be sent.
type Process struct {
	Path string
	Args []string
	Env  []string
}

// Self returns a Process that re-executes the running binary with args.
func Self(args ...string) (*Process, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &Process{Path: exe, Args: args}, nil
}

func (p *Process) Launch(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Args = append([]string{DaemonArgv0}, p.Args...)
	cmd.Env = p.Env

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("daemon launcher exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run daemon launcher: %w", err)
	}
	return nil
}

// Detach starts path in a new session with files inherited from fd 3
// onwards, then releases it so the caller may exit immediately.
func Detach(path string, args []string, files ...*os.File) error {
	cmd := exec.Command(path, args...)
	cmd.Args = append([]string{DaemonArgv0}, args...)
	cmd.Dir = "/"
	cmd.ExtraFiles = files
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release detached daemon: %w", err)
	}
	return nil
}
