package application

import (
	"context"
	"fmt"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/ports"
	"github.com/merijn/sync-history/internal/protocol"
	"github.com/rs/zerolog"
)

type EngineState int

const (
	StateRunning EngineState = iota
	StateShuttingDown
)

type EngineConfig struct {
	CacheCapacity int
	Limits        protocol.Limits
	Logger        zerolog.Logger
}

type EngineStats struct {
	Sessions  int
	Entries   uint64
	Evictions uint64
}

// Engine is the daemon's request loop. It handles one message at a time and
// owns the session table outright, so nothing in it is locked.
type Engine struct {
	endpoint ports.Endpoint
	history  ports.HistoryLog
	diag     ports.Diagnostics
	clock    ports.Clock
	cfg      EngineConfig
	log      zerolog.Logger

	sessions map[domain.SessionID]HistoryBuffer
	state    EngineState
	stats    EngineStats
}

func NewEngine(endpoint ports.Endpoint, history ports.HistoryLog, diag ports.Diagnostics, clock ports.Clock, cfg EngineConfig) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = protocol.DefaultMaxReplyPayload
	}
	if cfg.Limits == (protocol.Limits{}) {
		cfg.Limits = protocol.DefaultLimits()
	}
	if cfg.Limits.MaxReplyPayload < uint64(cfg.CacheCapacity) {
		cfg.Limits.MaxReplyPayload = uint64(cfg.CacheCapacity)
	}

	return &Engine{
		endpoint: endpoint,
		history:  history,
		diag:     diag,
		clock:    clock,
		cfg:      cfg,
		log:      cfg.Logger,
		sessions: map[domain.SessionID]HistoryBuffer{},
	}
}

func (e *Engine) State() EngineState {
	return e.state
}

func (e *Engine) Stats() EngineStats {
	stats := e.stats
	stats.Sessions = len(e.sessions)
	return stats
}

// Run serves requests until a Shutdown request arrives or ctx is cancelled.
// Cancellation is only observed after a blocking receive returns, so a
// signal takes effect with the next message.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().Str("state", "running").Msg("sync engine started")

	for e.state == StateRunning {
		msg, err := e.endpoint.Receive()
		if err != nil {
			return fmt.Errorf("receive request: %w", err)
		}

		req, err := protocol.DecodeRequest(msg, e.cfg.Limits)
		if err != nil {
			return fmt.Errorf("decode request: %w", err)
		}

		if err := e.Handle(req); err != nil {
			return err
		}

		if ctx.Err() != nil {
			e.log.Info().Msg("termination signal received")
			e.state = StateShuttingDown
		}
	}

	stats := e.Stats()
	e.log.Info().
		Int("sessions", stats.Sessions).
		Uint64("entries", stats.Entries).
		Uint64("evictions", stats.Evictions).
		Msg("sync engine stopped")
	return nil
}

// Handle dispatches a single decoded request.
func (e *Engine) Handle(req domain.Request) error {
	e.log.Debug().
		Stringer("origin", req.Origin).
		Stringer("command", req.Command).
		Int("length", len(req.Payload)).
		Msg("request")

	switch req.Command {
	case domain.CommandUpdate:
		return e.update(req.Origin, req.Payload)
	case domain.CommandDeregister:
		delete(e.sessions, req.Origin)
	case domain.CommandShutdown:
		e.state = StateShuttingDown
	case domain.CommandLogStart:
		e.startLog(string(protocol.TrimText(req.Payload)))
	case domain.CommandLogStop:
		e.stopLog()
	default:
		return fmt.Errorf("dispatch: %w: %d", protocol.ErrUnknownCommand, uint32(req.Command))
	}
	return nil
}

func (e *Engine) update(origin domain.SessionID, payload []byte) error {
	if len(payload) > 0 {
		entry := domain.FormatEntry(e.clock.Now(), protocol.TrimText(payload))
		// The entry must be durable before any session can see it.
		if err := e.history.Append(entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		e.stats.Entries++
		e.broadcast(entry)
	}

	cache, ok := e.sessions[origin]
	if !ok {
		cache = NewSessionCache(e.cfg.CacheCapacity)
		e.sessions[origin] = cache
	}

	rep := domain.Reply{Command: domain.ReplyNewHistory}
	if cache.IsFresh() {
		rep.Command = domain.ReplyReloadFile
	} else {
		rep.Payload = cache.Increment()
	}

	msg, err := protocol.EncodeReply(rep, e.cfg.Limits)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	err = e.endpoint.Reply(msg)
	cache.Reset()
	if err != nil {
		return fmt.Errorf("send reply to %s: %w", origin, err)
	}
	return nil
}

func (e *Engine) broadcast(entry []byte) {
	for id, cache := range e.sessions {
		cache.Append(entry)
		if cache.ShouldEvict() {
			delete(e.sessions, id)
			e.stats.Evictions++
			e.log.Debug().Stringer("session", id).Msg("cache overflowed, session evicted")
		}
	}
}

func (e *Engine) startLog(path string) {
	if e.diag == nil {
		return
	}
	if err := e.diag.Start(path); err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("start diagnostics")
		return
	}
	e.log.Info().
		Str("path", path).
		Int("cache_capacity", e.cfg.CacheCapacity).
		Uint64("max_request_payload", e.cfg.Limits.MaxRequestPayload).
		Msg("logging started")
}

func (e *Engine) stopLog() {
	if e.diag == nil {
		return
	}
	e.log.Info().Msg("stopping logging")
	if err := e.diag.Stop(); err != nil {
		e.log.Warn().Err(err).Msg("stop diagnostics")
	}
}
