package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/api"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/commands"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "config.toml", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "NJUPT campus Wi-Fi auto login\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  run                     Keep the network logged in (foreground, SIGUSR1 forces a check)\n")
		fmt.Fprintf(os.Stderr, "  service                 Same as run, under the system service manager\n")
		fmt.Fprintf(os.Stderr, "  check                   Probe the network once\n")
		fmt.Fprintf(os.Stderr, "  login                   Probe once and log in if the portal asks for it\n")
		fmt.Fprintf(os.Stderr, "  protect-password        Encrypt a password read from stdin for the config file\n")
		fmt.Fprintf(os.Stderr, "  interfaces              List network interfaces\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	api.Version = version
	api.Commit = commit
	api.Date = date

	cmds := []commands.Runner{
		commands.CreateRunCommand(),
		commands.CreateServiceCommand(),
		commands.CreateCheckCommand(),
		commands.CreateLoginCommand(),
		commands.CreateProtectPasswordCommand(),
		commands.CreateInterfacesCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
