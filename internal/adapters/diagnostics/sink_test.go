package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkDiscardsUntilStarted(t *testing.T) {
	sink := NewSink()

	n, err := sink.Write([]byte("dropped\n"))
	require.NoError(t, err)
	assert.Equal(t, len("dropped\n"), n)
}

func TestSinkStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "daemon.log")
	sink := NewSink()
	logger := zerolog.New(sink)

	logger.Info().Msg("before start")
	require.NoError(t, sink.Start(path))
	logger.Info().Msg("while started")
	require.NoError(t, sink.Stop())
	logger.Info().Msg("after stop")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(got), "before start")
	assert.Contains(t, string(got), "while started")
	assert.NotContains(t, string(got), "after stop")
}

func TestSinkRestartSwitchesFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	sink := NewSink()

	require.NoError(t, sink.Start(first))
	_, err := sink.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, sink.Start(second))
	_, err = sink.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, sink.Stop())

	got, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(got))
	got, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(got))
}

func TestSinkRejectsRelativePath(t *testing.T) {
	err := NewSink().Start("daemon.log")
	require.ErrorIs(t, err, errRelativePath)
}

func TestSinkStartReportsOpenErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	sink := NewSink()
	err := sink.Start(filepath.Join(blocker, "daemon.log"))
	require.ErrorContains(t, err, "open diagnostic log")

	_, err = sink.Write([]byte("still discarded\n"))
	require.NoError(t, err)
}

func TestSinkStopWithoutStart(t *testing.T) {
	require.NoError(t, NewSink().Stop())
}
