package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smokeEnv struct {
	binary  string
	home    string
	runtime string
}

func TestSmokeFlow(t *testing.T) {
	env := newSmokeEnv(t)
	daemonAddr := filepath.Join(env.runtime, ".sync_history")

	_, stderr, code := env.run(t, "update", "20")
	require.Equal(t, 2, code, "first contact bootstraps the daemon and reloads; stderr: %s", stderr)
	require.FileExists(t, daemonAddr)

	_, stderr, code = env.run(t, "update", "10", "echo hello")
	require.Equal(t, 2, code, "stderr: %s", stderr)

	stdout, stderr, code := env.run(t, "update", "20")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Regexp(t, `^#\d+\necho hello\n$`, stdout)

	stdout, _, code = env.run(t, "history-path")
	require.Equal(t, 0, code)
	history, err := os.ReadFile(filepath.Join(env.home, ".bash_history_synced"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.home, ".bash_history_synced")+"\n", stdout)
	assert.Regexp(t, `^#\d+\necho hello\n$`, string(history))

	_, stderr, code = env.run(t, "shutdown")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	require.Eventually(t, func() bool {
		_, err := os.Stat(daemonAddr)
		return errors.Is(err, os.ErrNotExist)
	}, 5*time.Second, 20*time.Millisecond, "daemon did not release its address")
}

func TestSmokeConcurrentBootstrapStartsOneDaemon(t *testing.T) {
	env := newSmokeEnv(t)

	const shells = 8
	codes := make(chan int, shells)
	for i := 0; i < shells; i++ {
		go func(pid int) {
			_, _, code := env.run(t, "update", strconv.Itoa(100+pid))
			codes <- code
		}(i)
	}
	for i := 0; i < shells; i++ {
		assert.Equal(t, 2, <-codes, "every racing shell gets a reload")
	}

	_, stderr, code := env.run(t, "shutdown")
	require.Equal(t, 0, code, "stderr: %s", stderr)
}

func newSmokeEnv(t *testing.T) smokeEnv {
	t.Helper()

	runtime, err := os.MkdirTemp("", "sh-e2e-")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(runtime) })

	env := smokeEnv{binary: buildBinary(t), home: t.TempDir(), runtime: runtime}
	t.Cleanup(func() {
		// Stop a daemon left behind by a failed assertion.
		if _, err := os.Stat(filepath.Join(runtime, ".sync_history")); err == nil {
			env.run(t, "shutdown")
		}
	})
	return env
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "sync-history-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/sync-history")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build sync-history binary: %s", string(output))
	return binaryPath
}

func (e smokeEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Env = append(os.Environ(), "HOME="+e.home, "XDG_RUNTIME_DIR="+e.runtime)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), exitErr.ExitCode()
	}
	// run is also called from helper goroutines, so it must not FailNow.
	if !assert.NoError(t, err) {
		return stdout.String(), stderr.String(), -1
	}
	return stdout.String(), stderr.String(), 0
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
