package application

import (
	"context"
	"errors"
	"testing"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/ports/mocks"
	"github.com/merijn/sync-history/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const testDaemonAddr = "/run/user/1000/.sync_history"

func notFound() error {
	return domain.NewOSError("sendmsg", unix.ENOENT, testDaemonAddr)
}

func pushReply(t *testing.T, ep *fakeEndpoint, rep domain.Reply) {
	t.Helper()

	msg, err := protocol.EncodeReply(rep, protocol.DefaultLimits())
	require.NoError(t, err)
	ep.inbox = append(ep.inbox, msg)
}

func TestClientUpdateNewHistoryStripsTerminator(t *testing.T) {
	ep := &fakeEndpoint{}
	pushReply(t, ep, domain.Reply{Command: domain.ReplyNewHistory, Payload: []byte("#1\nls\n\x00")})
	client := NewClient(ep, nil, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	res, err := client.Update(context.Background(), 10, "pwd")
	require.NoError(t, err)
	assert.False(t, res.Reload)
	assert.Equal(t, "#1\nls\n", string(res.History))

	require.Len(t, ep.sent, 1)
	assert.Equal(t, testDaemonAddr, ep.sent[0].dest)
	req, err := protocol.DecodeRequest(ep.sent[0].msg, protocol.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID(10), req.Origin)
	assert.Equal(t, "pwd\x00", string(req.Payload))
}

func TestClientUpdateReload(t *testing.T) {
	ep := &fakeEndpoint{}
	pushReply(t, ep, domain.Reply{Command: domain.ReplyReloadFile})
	client := NewClient(ep, nil, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	res, err := client.Update(context.Background(), 10, "")
	require.NoError(t, err)
	assert.True(t, res.Reload)
	assert.Empty(t, res.History)
}

func TestClientUpdateRejectsMisframedReply(t *testing.T) {
	ep := &fakeEndpoint{}
	pushReply(t, ep, domain.Reply{Command: domain.ReplyNewHistory, Payload: []byte("abc")})
	ep.inbox[0] = ep.inbox[0][:len(ep.inbox[0])-1]
	client := NewClient(ep, nil, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	_, err := client.Update(context.Background(), 10, "")
	require.ErrorIs(t, err, protocol.ErrProtocolFraming)
}

func TestClientLaunchesDaemonOnceAndRetries(t *testing.T) {
	ep := &fakeEndpoint{sendErr: []error{notFound(), nil}}
	launcher := mocks.NewMockLauncher(t)
	launcher.EXPECT().Launch(mock.Anything).Return(nil).Once()
	client := NewClient(ep, launcher, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	require.NoError(t, client.Deregister(context.Background(), 10))
	require.Len(t, ep.sent, 2)
	assert.Equal(t, ep.sent[0].msg, ep.sent[1].msg, "retry resends the original request")
}

func TestClientRetryFailureIsFatal(t *testing.T) {
	ep := &fakeEndpoint{sendErr: []error{notFound(), notFound()}}
	launcher := mocks.NewMockLauncher(t)
	launcher.EXPECT().Launch(mock.Anything).Return(nil).Once()
	client := NewClient(ep, launcher, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	err := client.Shutdown(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "after launch")
	assert.Len(t, ep.sent, 2, "no retries beyond the first")
}

func TestClientLaunchFailureIsFatal(t *testing.T) {
	ep := &fakeEndpoint{sendErr: []error{notFound()}}
	launcher := mocks.NewMockLauncher(t)
	launcher.EXPECT().Launch(mock.Anything).Return(errors.New("daemon launcher exited with status 1")).Once()
	client := NewClient(ep, launcher, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	err := client.StartLog(context.Background(), "/tmp/log")
	require.ErrorContains(t, err, "launch daemon")
	assert.Len(t, ep.sent, 1)
}

func TestClientOtherSendErrorsDoNotLaunch(t *testing.T) {
	refused := domain.NewOSError("sendmsg", unix.ECONNREFUSED, testDaemonAddr)
	ep := &fakeEndpoint{sendErr: []error{refused}}
	launcher := mocks.NewMockLauncher(t)
	client := NewClient(ep, launcher, testDaemonAddr, protocol.DefaultLimits(), zerolog.Nop())

	err := client.StopLog(context.Background())
	require.ErrorIs(t, err, unix.ECONNREFUSED)
	launcher.AssertNotCalled(t, "Launch", mock.Anything)
}
