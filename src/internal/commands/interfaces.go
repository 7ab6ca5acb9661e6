package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
)

func CreateInterfacesCommand() *InterfacesCommand {
	ic := &InterfacesCommand{
		fs:  flag.NewFlagSet("interfaces", flag.ExitOnError),
		out: os.Stdout,
	}
	ic.fs.BoolVar(&ic.all, "all", false, "Include loopback interfaces")
	return ic
}

type InterfacesCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	out io.Writer
	all bool

	list func() ([]networking.InterfaceInfo, error)
}

func (g *InterfacesCommand) Name() string {
	return g.fs.Name()
}

func (g *InterfacesCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx
	if g.list == nil {
		g.list = networking.ListInterfaces
	}
	return g.fs.Parse(args)
}

func (g *InterfacesCommand) Run() error {
	interfaces, err := g.list()
	if err != nil {
		return fmt.Errorf("failed to get interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Loopback && !g.all {
			continue
		}
		state := "down"
		if iface.Up {
			state = "up"
		}
		addrs := make([]string, 0, len(iface.Addrs))
		for _, ip := range iface.Addrs {
			addrs = append(addrs, ip.String())
		}
		fmt.Fprintf(g.out, "%d. %s (%s)", iface.Index, iface.Name, state)
		if len(addrs) > 0 {
			fmt.Fprintf(g.out, " %s", strings.Join(addrs, ", "))
		}
		fmt.Fprintln(g.out)
	}
	return nil
}
