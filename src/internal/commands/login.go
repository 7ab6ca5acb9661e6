package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/portal"
)

func CreateLoginCommand() *LoginCommand {
	lc := &LoginCommand{
		fs:  flag.NewFlagSet("login", flag.ExitOnError),
		out: os.Stdout,
	}
	lc.fs.BoolVar(&lc.force, "force", false, "Log in even if the probe does not detect the portal (requires -user-ip)")
	lc.fs.StringVar(&lc.userIP, "user-ip", "", "Client address to send when -force is set")
	return lc
}

// LoginCommand probes the network once and logs in when the portal asks for it.
type LoginCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	prober daemon.Prober
	login  daemon.Authenticator
	out    io.Writer

	force  bool
	userIP string
}

func (l *LoginCommand) Name() string {
	return l.fs.Name()
}

func (l *LoginCommand) Init(args []string, ctx *AppContext) error {
	l.ctx = ctx

	if err := l.fs.Parse(args); err != nil {
		return err
	}
	if l.force && l.userIP == "" {
		return fmt.Errorf("-force requires -user-ip")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	l.cfg = cfg

	prober, login, err := daemon.BuildPortal(cfg)
	if err != nil {
		return err
	}
	l.prober = prober
	l.login = login

	return nil
}

func (l *LoginCommand) Run() error {
	defer log.Close()
	ctx := context.Background()

	var ap portal.ApInfo
	if l.force {
		ap = portal.ApInfo{UserIP: l.userIP}
	} else {
		status := l.prober.Probe(ctx)
		printStatus(l.out, status)
		if status.Status != portal.StatusAuthenticationRequired || status.AP == nil {
			if status.Status == portal.StatusDisconnected {
				return fmt.Errorf("network check failed: %v", status.Cause)
			}
			fmt.Fprintln(l.out, "Login not required")
			return nil
		}
		ap = *status.AP
	}

	if err := l.login.Login(ctx, l.cfg.Credential(), ap); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintln(l.out, "Connected")
	return nil
}
