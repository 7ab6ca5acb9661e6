// Package commands implements CLI command handlers for njupt-wifi-login.
//
// Each command implements the Runner interface:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - run: run the login loop in the foreground until SIGINT/SIGTERM
//   - service: run the login loop under the system service manager
//   - check: probe the network once and print the status
//   - login: probe once and log in if the portal asks for it
//   - protect-password: encrypt a password for the config file
//   - interfaces: list interfaces usable as "interface" in the config
//
// # Example Usage
//
//	cmd := commands.CreateRunCommand()
//	ctx := &commands.AppContext{
//	    ConfigPath: "/etc/njupt-wifi-login/config.toml",
//	    Verbose:    true,
//	}
//	if err := cmd.Init(nil, ctx); err != nil {
//	    log.Fatalf("Failed to initialize command: %v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("Failed to run command: %v", err)
//	}
package commands
