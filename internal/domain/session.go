package domain

import (
	"fmt"
	"strconv"
	"time"
)

// SessionID is the process id of the shell owning a session.
type SessionID uint32

func ParseSessionID(raw string) (SessionID, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSession, raw)
	}
	return SessionID(v), nil
}

func (id SessionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

type RequestCommand uint32

const (
	CommandUpdate RequestCommand = iota
	CommandDeregister
	CommandShutdown
	CommandLogStart
	CommandLogStop
)

func (c RequestCommand) Valid() bool {
	return c <= CommandLogStop
}

func (c RequestCommand) String() string {
	switch c {
	case CommandUpdate:
		return "update"
	case CommandDeregister:
		return "deregister"
	case CommandShutdown:
		return "shutdown"
	case CommandLogStart:
		return "log_start"
	case CommandLogStop:
		return "log_stop"
	default:
		return fmt.Sprintf("command(%d)", uint32(c))
	}
}

type ReplyCommand uint32

const (
	ReplyNewHistory ReplyCommand = iota
	ReplyReloadFile
)

func (c ReplyCommand) Valid() bool {
	return c <= ReplyReloadFile
}

func (c ReplyCommand) String() string {
	switch c {
	case ReplyNewHistory:
		return "new_history"
	case ReplyReloadFile:
		return "reload_file"
	default:
		return fmt.Sprintf("reply(%d)", uint32(c))
	}
}

type Request struct {
	Origin  SessionID
	Command RequestCommand
	Payload []byte
}

type Reply struct {
	Command ReplyCommand
	Payload []byte
}

// FormatEntry renders one durable log entry: "#<unix-seconds>\n<line>\n".
func FormatEntry(at time.Time, line []byte) []byte {
	stamp := strconv.FormatInt(at.Unix(), 10)
	out := make([]byte, 0, len(stamp)+len(line)+3)
	out = append(out, '#')
	out = append(out, stamp...)
	out = append(out, '\n')
	out = append(out, line...)
	out = append(out, '\n')
	return out
}
