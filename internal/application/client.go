package application

import (
	"context"
	"fmt"

	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/ports"
	"github.com/merijn/sync-history/internal/protocol"
	"github.com/rs/zerolog"
)

type UpdateResult struct {
	// Reload asks the caller to discard incremental state and re-read the
	// whole history file.
	Reload bool
	// History holds the new entries without the wire terminator.
	History []byte
}

type Client struct {
	endpoint   ports.Endpoint
	launcher   ports.Launcher
	daemonAddr string
	limits     protocol.Limits
	log        zerolog.Logger
}

func NewClient(endpoint ports.Endpoint, launcher ports.Launcher, daemonAddr string, limits protocol.Limits, logger zerolog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		launcher:   launcher,
		daemonAddr: daemonAddr,
		limits:     limits,
		log:        logger,
	}
}

// Update submits line (or polls, when line is empty) and waits for the reply.
func (c *Client) Update(ctx context.Context, origin domain.SessionID, line string) (UpdateResult, error) {
	req := domain.Request{Origin: origin, Command: domain.CommandUpdate, Payload: protocol.TextPayload(line)}
	if err := c.send(ctx, req); err != nil {
		return UpdateResult{}, err
	}

	msg, err := c.endpoint.Receive()
	if err != nil {
		return UpdateResult{}, fmt.Errorf("receive reply: %w", err)
	}
	rep, err := protocol.DecodeReply(msg, c.limits)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("decode reply: %w", err)
	}

	c.log.Debug().Stringer("origin", origin).Stringer("reply", rep.Command).Int("length", len(rep.Payload)).Msg("reply")

	switch rep.Command {
	case domain.ReplyReloadFile:
		return UpdateResult{Reload: true}, nil
	default:
		history := append([]byte(nil), protocol.TrimText(rep.Payload)...)
		return UpdateResult{History: history}, nil
	}
}

func (c *Client) Deregister(ctx context.Context, origin domain.SessionID) error {
	return c.send(ctx, domain.Request{Origin: origin, Command: domain.CommandDeregister})
}

func (c *Client) Shutdown(ctx context.Context) error {
	return c.send(ctx, domain.Request{Command: domain.CommandShutdown})
}

func (c *Client) StartLog(ctx context.Context, path string) error {
	return c.send(ctx, domain.Request{Command: domain.CommandLogStart, Payload: protocol.TextPayload(path)})
}

func (c *Client) StopLog(ctx context.Context) error {
	return c.send(ctx, domain.Request{Command: domain.CommandLogStop})
}

// send delivers req to the daemon. When nothing listens at the daemon
// address it launches one candidate daemon and retries exactly once.
func (c *Client) send(ctx context.Context, req domain.Request) error {
	msg, err := protocol.EncodeRequest(req, c.limits)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", req.Command, err)
	}

	err = c.endpoint.Send(msg, c.daemonAddr)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) || c.launcher == nil {
		return fmt.Errorf("send %s request: %w", req.Command, err)
	}

	c.log.Debug().Str("addr", c.daemonAddr).Msg("daemon not running, launching")
	if err := c.launcher.Launch(ctx); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}

	if err := c.endpoint.Send(msg, c.daemonAddr); err != nil {
		return fmt.Errorf("send %s request after launch: %w", req.Command, err)
	}
	return nil
}
