package commands

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

func CreateRunCommand() *RunCommand {
	return &RunCommand{
		fs: flag.NewFlagSet("run", flag.ExitOnError),
	}
}

// RunCommand runs the login loop in the foreground.
type RunCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	daemon *daemon.Daemon
}

func (r *RunCommand) Name() string {
	return r.fs.Name()
}

func (r *RunCommand) Init(args []string, ctx *AppContext) error {
	r.ctx = ctx

	if err := r.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	r.cfg = cfg

	d, err := newDaemon(ctx, cfg)
	if err != nil {
		return err
	}
	r.daemon = d

	return nil
}

func (r *RunCommand) Run() error {
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()

	if len(checkSignals) > 0 {
		checkCh := make(chan os.Signal, 1)
		signal.Notify(checkCh, checkSignals...)
		defer signal.Stop(checkCh)

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case sig := <-checkCh:
					log.Infof("Received %v, checking network", sig)
					r.daemon.TriggerCheck()
				}
			}
		}()
		log.Infof("Send SIGUSR1 to check the network immediately")
	}

	return r.daemon.Run(ctx, daemon.NopEventSink{})
}
