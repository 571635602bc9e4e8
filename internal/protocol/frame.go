// Package protocol owns the datagram wire format shared by the daemon and its
// clients.
//
// Every message is a fixed big-endian header immediately followed by exactly
// PayloadLen raw payload bytes. There is no magic or version field: both ends
// ship in the same binary.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/merijn/sync-history/internal/domain"
)

const (
	RequestHeaderLen = 16
	ReplyHeaderLen   = 12

	// DefaultMaxRequestPayload mirrors the traditional ARG_MAX: a line is
	// handed to the client as a single argument.
	DefaultMaxRequestPayload = 128 * 1024
	// DefaultMaxReplyPayload mirrors IOV_MAX and bounds every session cache.
	DefaultMaxReplyPayload = 1024
)

var (
	ErrProtocolFraming = errors.New("protocol: incorrect message length")
	ErrUnknownCommand  = errors.New("protocol: unknown command")
	ErrPayloadTooLarge = errors.New("protocol: payload too large")
)

// Limits constrains decode/encode memory use.
type Limits struct {
	MaxRequestPayload uint64
	MaxReplyPayload   uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxRequestPayload: DefaultMaxRequestPayload,
		MaxReplyPayload:   DefaultMaxReplyPayload,
	}
}

// RequestBufferSize is the receive buffer needed for the largest legal request.
func (l Limits) RequestBufferSize() int {
	return RequestHeaderLen + int(l.MaxRequestPayload)
}

// ReplyBufferSize is the receive buffer needed for the largest legal reply.
func (l Limits) ReplyBufferSize() int {
	return ReplyHeaderLen + int(l.MaxReplyPayload)
}

type RequestHeader struct {
	Origin     uint32
	Command    uint32
	PayloadLen uint64
}

type ReplyHeader struct {
	Command    uint32
	PayloadLen uint64
}

func EncodeRequest(req domain.Request, limits Limits) ([]byte, error) {
	if uint64(len(req.Payload)) > limits.MaxRequestPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(req.Payload), limits.MaxRequestPayload)
	}
	buf := make([]byte, RequestHeaderLen+len(req.Payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(req.Origin))
	binary.BigEndian.PutUint32(buf[4:8], uint32(req.Command))
	binary.BigEndian.PutUint64(buf[8:16], uint64(len(req.Payload)))
	copy(buf[RequestHeaderLen:], req.Payload)
	return buf, nil
}

func EncodeReply(rep domain.Reply, limits Limits) ([]byte, error) {
	if uint64(len(rep.Payload)) > limits.MaxReplyPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(rep.Payload), limits.MaxReplyPayload)
	}
	buf := make([]byte, ReplyHeaderLen+len(rep.Payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(rep.Command))
	binary.BigEndian.PutUint64(buf[4:12], uint64(len(rep.Payload)))
	copy(buf[ReplyHeaderLen:], rep.Payload)
	return buf, nil
}

func DecodeRequestHeader(b []byte) (RequestHeader, error) {
	if len(b) < RequestHeaderLen {
		return RequestHeader{}, fmt.Errorf("%w: short header (%d bytes)", ErrProtocolFraming, len(b))
	}
	return RequestHeader{
		Origin:     binary.BigEndian.Uint32(b[0:4]),
		Command:    binary.BigEndian.Uint32(b[4:8]),
		PayloadLen: binary.BigEndian.Uint64(b[8:16]),
	}, nil
}

func DecodeReplyHeader(b []byte) (ReplyHeader, error) {
	if len(b) < ReplyHeaderLen {
		return ReplyHeader{}, fmt.Errorf("%w: short header (%d bytes)", ErrProtocolFraming, len(b))
	}
	return ReplyHeader{
		Command:    binary.BigEndian.Uint32(b[0:4]),
		PayloadLen: binary.BigEndian.Uint64(b[4:12]),
	}, nil
}

// DecodeRequest validates that the datagram holds exactly one header plus the
// declared payload. The returned payload aliases b.
func DecodeRequest(b []byte, limits Limits) (domain.Request, error) {
	h, err := DecodeRequestHeader(b)
	if err != nil {
		return domain.Request{}, err
	}
	if h.PayloadLen > limits.MaxRequestPayload {
		return domain.Request{}, fmt.Errorf("%w: declared %d bytes", ErrPayloadTooLarge, h.PayloadLen)
	}
	if uint64(len(b)-RequestHeaderLen) != h.PayloadLen {
		return domain.Request{}, fmt.Errorf("%w: got %d, declared %d", ErrProtocolFraming, len(b), RequestHeaderLen+h.PayloadLen)
	}
	cmd := domain.RequestCommand(h.Command)
	if !cmd.Valid() {
		return domain.Request{}, fmt.Errorf("%w: %d", ErrUnknownCommand, h.Command)
	}
	return domain.Request{
		Origin:  domain.SessionID(h.Origin),
		Command: cmd,
		Payload: b[RequestHeaderLen:],
	}, nil
}

// DecodeReply is the reply-side counterpart of DecodeRequest.
func DecodeReply(b []byte, limits Limits) (domain.Reply, error) {
	h, err := DecodeReplyHeader(b)
	if err != nil {
		return domain.Reply{}, err
	}
	if h.PayloadLen > limits.MaxReplyPayload {
		return domain.Reply{}, fmt.Errorf("%w: declared %d bytes", ErrPayloadTooLarge, h.PayloadLen)
	}
	if uint64(len(b)-ReplyHeaderLen) != h.PayloadLen {
		return domain.Reply{}, fmt.Errorf("%w: got %d, declared %d", ErrProtocolFraming, len(b), ReplyHeaderLen+h.PayloadLen)
	}
	cmd := domain.ReplyCommand(h.Command)
	if !cmd.Valid() {
		return domain.Reply{}, fmt.Errorf("%w: %d", ErrUnknownCommand, h.Command)
	}
	return domain.Reply{Command: cmd, Payload: b[ReplyHeaderLen:]}, nil
}
