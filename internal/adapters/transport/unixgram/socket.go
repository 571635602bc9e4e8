package unixgram

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/ports"
	"github.com/merijn/sync-history/internal/protocol"
	"golang.org/x/sys/unix"
)

const network = "unixgram"

// Socket is a unix datagram endpoint bound to a filesystem path.
type Socket struct {
	conn *net.UnixConn
	path string
	buf  []byte

	mu       sync.Mutex
	from     *net.UnixAddr
	received bool

	unlinkOnClose bool
	closeOnce     sync.Once
	closeErr      error
}

var _ ports.Endpoint = (*Socket)(nil)

type Options struct {
	// BufferSize must hold the largest legal header plus payload.
	BufferSize int
	// ReplaceStale removes whatever is at the path before binding. Only
	// per-session client addresses may do this: the daemon's well-known
	// address doubles as the single-instance lock.
	ReplaceStale bool
}

// Bind exclusively claims path. A path that is already bound fails with an
// error matched by domain.IsAddressInUse.
func Bind(path string, opts Options) (*Socket, error) {
	if opts.BufferSize <= 0 {
		return nil, fmt.Errorf("bind %s: buffer size must be positive", path)
	}
	if opts.ReplaceStale {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewOSError("unlink", err, path)
		}
	}

	conn, err := net.ListenUnixgram(network, &net.UnixAddr{Name: path, Net: network})
	if err != nil {
		return nil, domain.NewOSError("bind", err, path)
	}

	return &Socket{
		conn:          conn,
		path:          path,
		buf:           make([]byte, opts.BufferSize),
		unlinkOnClose: true,
	}, nil
}

// FromFile adopts an inherited socket that was bound to path by another
// process. The adopted socket unlinks path on Close.
func FromFile(f *os.File, path string, bufferSize int) (*Socket, error) {
	defer f.Close()

	pc, err := net.FilePacketConn(f)
	if err != nil {
		return nil, domain.NewOSError("fdopen", err, path)
	}
	conn, ok := pc.(*net.UnixConn)
	if !ok {
		_ = pc.Close()
		return nil, fmt.Errorf("adopt %s: inherited descriptor is not a unix socket", path)
	}

	return &Socket{
		conn:          conn,
		path:          path,
		buf:           make([]byte, bufferSize),
		unlinkOnClose: true,
	}, nil
}

func (s *Socket) Path() string {
	return s.path
}

// Send transmits msg to dest as a single datagram.
func (s *Socket) Send(msg []byte, dest string) error {
	n, _, err := s.conn.WriteMsgUnix(msg, nil, &net.UnixAddr{Name: dest, Net: network})
	if err != nil {
		return domain.NewOSError("sendmsg", err, dest)
	}
	if n != len(msg) {
		return fmt.Errorf("sendmsg(): %w: %d of %d bytes", domain.ErrShortWrite, n, len(msg))
	}
	return nil
}

// Receive blocks for one datagram and remembers its sender for Reply. The
// returned slice is only valid until the next Receive.
func (s *Socket) Receive() ([]byte, error) {
	n, _, flags, from, err := s.conn.ReadMsgUnix(s.buf, nil)
	if err != nil {
		return nil, domain.NewOSError("recvmsg", err, s.path)
	}
	if flags&unix.MSG_TRUNC != 0 {
		return nil, fmt.Errorf("recvmsg(): %w: datagram exceeds %d bytes", protocol.ErrProtocolFraming, len(s.buf))
	}

	s.mu.Lock()
	s.received = true
	s.from = nil
	if from != nil && from.Name != "" {
		s.from = from
	}
	s.mu.Unlock()

	return s.buf[:n], nil
}

// Reply sends msg to the sender captured by the last Receive.
func (s *Socket) Reply(msg []byte) error {
	s.mu.Lock()
	received, from := s.received, s.from
	s.mu.Unlock()

	if !received {
		return domain.ErrNoReturnAddress
	}
	if from == nil {
		return fmt.Errorf("%w: sender is unbound", domain.ErrNoReturnAddress)
	}
	return s.Send(msg, from.Name)
}

// Handoff duplicates the bound descriptor for a child process and closes this
// socket without unlinking its path.
func (s *Socket) Handoff() (*os.File, error) {
	f, err := s.conn.File()
	if err != nil {
		return nil, domain.NewOSError("dup", err, s.path)
	}
	s.unlinkOnClose = false
	if err := s.Close(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Close releases the descriptor and, unless handed off, the bound path.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.conn.Close(); err != nil {
			errs = append(errs, domain.NewOSError("close", err, s.path))
		}
		if s.unlinkOnClose {
			if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, domain.NewOSError("unlink", err, s.path))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
