package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/portal"
)

func CreateCheckCommand() *CheckCommand {
	return &CheckCommand{
		fs:  flag.NewFlagSet("check", flag.ExitOnError),
		out: os.Stdout,
	}
}

// CheckCommand probes the network once.
type CheckCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	prober daemon.Prober
	out    io.Writer
}

func (c *CheckCommand) Name() string {
	return c.fs.Name()
}

func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	prober, _, err := daemon.BuildPortal(cfg)
	if err != nil {
		return err
	}
	c.prober = prober

	return nil
}

func (c *CheckCommand) Run() error {
	status := c.prober.Probe(context.Background())
	printStatus(c.out, status)
	if status.Status == portal.StatusDisconnected {
		return fmt.Errorf("network check failed: %v", status.Cause)
	}
	return nil
}

func printStatus(w io.Writer, status portal.NetworkStatus) {
	fmt.Fprintf(w, "Network status: %s\n", status.Status)
	if status.AP != nil {
		fmt.Fprintf(w, "  User IP: %s\n", status.AP.UserIP)
		if status.AP.ACIP != "" {
			fmt.Fprintf(w, "  AC IP:   %s\n", status.AP.ACIP)
		}
		if status.AP.ACName != "" {
			fmt.Fprintf(w, "  AC name: %s\n", status.AP.ACName)
		}
	}
	if status.Cause != nil {
		fmt.Fprintf(w, "  Detail:  %v\n", status.Cause)
	}
}
