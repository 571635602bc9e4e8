package unixgram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindT(t *testing.T, path string, size int) *Socket {
	t.Helper()

	s, err := Bind(path, Options{BufferSize: size})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBindTwiceReportsAddressInUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync_history")
	bindT(t, path, 64)

	_, err := Bind(path, Options{BufferSize: 64})
	require.Error(t, err)
	assert.True(t, domain.IsAddressInUse(err), "got %v", err)
}

func TestSendToUnboundPathReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	client := bindT(t, filepath.Join(dir, ".sync-10"), 64)

	err := client.Send([]byte("hello"), filepath.Join(dir, ".sync_history"))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestReplyUsesSenderAddress(t *testing.T) {
	dir := t.TempDir()
	server := bindT(t, filepath.Join(dir, ".sync_history"), 64)
	client := bindT(t, filepath.Join(dir, ".sync-10"), 64)

	require.NoError(t, client.Send([]byte("ping"), server.Path()))

	got, err := server.Receive()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))

	require.NoError(t, server.Reply([]byte("pong")))

	got, err = client.Receive()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(got))
}

func TestReplyBeforeReceiveFails(t *testing.T) {
	server := bindT(t, filepath.Join(t.TempDir(), ".sync_history"), 64)

	err := server.Reply([]byte("pong"))
	require.ErrorIs(t, err, domain.ErrNoReturnAddress)
}

func TestOversizedDatagramIsFramingError(t *testing.T) {
	dir := t.TempDir()
	server := bindT(t, filepath.Join(dir, ".sync_history"), 4)
	client := bindT(t, filepath.Join(dir, ".sync-10"), 64)

	require.NoError(t, client.Send([]byte("too long"), server.Path()))

	_, err := server.Receive()
	require.ErrorIs(t, err, protocol.ErrProtocolFraming)
}

func TestCloseUnlinksPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync_history")
	s, err := Bind(path, Options{BufferSize: 64})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplaceStaleClientAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync-10")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := Bind(path, Options{BufferSize: 64})
	require.Error(t, err)

	s, err := Bind(path, Options{BufferSize: 64, ReplaceStale: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestHandoffKeepsPathForAdopter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sync_history")
	launcher, err := Bind(path, Options{BufferSize: 64})
	require.NoError(t, err)

	f, err := launcher.Handoff()
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "handoff must not unlink the bound path")

	daemon, err := FromFile(f, path, 64)
	require.NoError(t, err)

	client := bindT(t, filepath.Join(dir, ".sync-10"), 64)
	require.NoError(t, client.Send([]byte("ping"), path))

	got, err := daemon.Receive()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))

	require.NoError(t, daemon.Close())
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
