package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/merijn/sync-history/internal/adapters/launcher"
	"github.com/merijn/sync-history/internal/adapters/transport/unixgram"
	"github.com/merijn/sync-history/internal/application"
	"github.com/merijn/sync-history/internal/config"
	"github.com/merijn/sync-history/internal/domain"
	"github.com/merijn/sync-history/internal/logging"
	"github.com/merijn/sync-history/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	launcher ports.Launcher
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	daemonLauncher, err := launcher.Self("daemon")
	if err != nil {
		return nil, fmt.Errorf("wire daemon launcher: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logging.NewConsole(os.Stderr, cfg.Level()),
		launcher: daemonLauncher,
	}, nil
}

// withClient binds the reply address for id for the duration of fn.
func (a *app) withClient(ctx context.Context, id domain.SessionID, fn func(context.Context, *application.Client) error) error {
	limits := a.cfg.Limits()
	sock, err := unixgram.Bind(a.cfg.SessionAddress(id), unixgram.Options{
		BufferSize:   limits.ReplyBufferSize(),
		ReplaceStale: true,
	})
	if err != nil {
		return fmt.Errorf("bind session address: %w", err)
	}
	defer func() {
		if err := sock.Close(); err != nil {
			a.logger.Warn().Err(err).Str("addr", sock.Path()).Msg("close session socket")
		}
	}()

	client := application.NewClient(sock, a.launcher, a.cfg.DaemonAddress(), limits, a.logger)
	return fn(ctx, client)
}

// selfSession is the session used by commands that act for no particular
// shell.
func selfSession() domain.SessionID {
	return domain.SessionID(os.Getpid())
}
