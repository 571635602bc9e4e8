package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/merijn/sync-history/internal/adapters/diagnostics"
	historyfile "github.com/merijn/sync-history/internal/adapters/historylog/file"
	"github.com/merijn/sync-history/internal/adapters/launcher"
	"github.com/merijn/sync-history/internal/adapters/transport/unixgram"
	"github.com/merijn/sync-history/internal/application"
	"github.com/merijn/sync-history/internal/logging"
	"github.com/merijn/sync-history/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// inheritedSocketFD is where a detached daemon finds its bound socket.
const inheritedSocketFD = 3

var errDaemonRunning = errors.New("daemon already running")

// terminationSignals end the daemon after the request being handled.
var terminationSignals = []os.Signal{
	unix.SIGHUP, unix.SIGINT, unix.SIGQUIT, unix.SIGPIPE,
	unix.SIGALRM, unix.SIGTERM, unix.SIGXCPU, unix.SIGXFSZ,
	unix.SIGVTALRM, unix.SIGPROF, unix.SIGUSR1, unix.SIGUSR2,
}

func newDaemonCmd(app *app) *cobra.Command {
	var serve, foreground bool

	cmd := &cobra.Command{
		Use:    "daemon",
		Short:  "Claim the daemon address and start serving",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case serve:
				return app.serveInherited(cmd.Context())
			case foreground:
				return app.serveForeground(cmd.Context())
			default:
				return app.spawnDaemon()
			}
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "serve on the socket inherited as fd 3")
	cmd.Flags().BoolVar(&foreground, "foreground", false, "bind and serve without detaching")
	cmd.MarkFlagsMutuallyExclusive("serve", "foreground")
	_ = cmd.Flags().MarkHidden("serve")

	return cmd
}

func (a *app) bindDaemon() (*unixgram.Socket, bool, error) {
	return application.Elect(func() (*unixgram.Socket, error) {
		return unixgram.Bind(a.cfg.DaemonAddress(), unixgram.Options{
			BufferSize: a.cfg.Limits().RequestBufferSize(),
		})
	})
}

// spawnDaemon is what the launcher runs. It returns only once the daemon
// address is bound, by this candidate or by whoever won the race.
func (a *app) spawnDaemon() error {
	sock, won, err := a.bindDaemon()
	if err != nil {
		return err
	}
	if !won {
		a.logger.Debug().Str("addr", a.cfg.DaemonAddress()).Msg("daemon address already claimed")
		return nil
	}

	f, err := sock.Handoff()
	if err != nil {
		return fmt.Errorf("hand off daemon socket: %w", err)
	}
	defer f.Close()

	exe, err := os.Executable()
	if err != nil {
		_ = os.Remove(a.cfg.DaemonAddress())
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := launcher.Detach(exe, []string{"daemon", "--serve"}, f); err != nil {
		_ = os.Remove(a.cfg.DaemonAddress())
		return err
	}
	return nil
}

func (a *app) serveInherited(ctx context.Context) error {
	f := os.NewFile(inheritedSocketFD, a.cfg.DaemonAddress())
	if f == nil {
		return fmt.Errorf("no socket inherited on fd %d", inheritedSocketFD)
	}
	sock, err := unixgram.FromFile(f, a.cfg.DaemonAddress(), a.cfg.Limits().RequestBufferSize())
	if err != nil {
		return err
	}
	return a.serve(ctx, sock)
}

func (a *app) serveForeground(ctx context.Context) error {
	sock, won, err := a.bindDaemon()
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("%w at %s", errDaemonRunning, a.cfg.DaemonAddress())
	}
	return a.serve(ctx, sock)
}

// serve runs the engine on sock until shutdown or a termination signal and
// releases the daemon address afterwards.
func (a *app) serve(ctx context.Context, sock *unixgram.Socket) (err error) {
	defer func() {
		err = errors.Join(err, sock.Close())
	}()

	history, err := historyfile.Open(a.cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer history.Close()

	sink := diagnostics.NewSink()
	defer sink.Stop()

	ctx, stop := signal.NotifyContext(ctx, terminationSignals...)
	defer stop()

	engine := application.NewEngine(sock, history, sink, ports.SystemClock{}, application.EngineConfig{
		CacheCapacity: a.cfg.CacheCapacity,
		Limits:        a.cfg.Limits(),
		Logger:        logging.NewDaemon(sink, zerolog.DebugLevel),
	})
	return engine.Run(ctx)
}
