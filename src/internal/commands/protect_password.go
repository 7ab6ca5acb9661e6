package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
)

func CreateProtectPasswordCommand() *ProtectPasswordCommand {
	pc := &ProtectPasswordCommand{
		fs:  flag.NewFlagSet("protect-password", flag.ExitOnError),
		in:  os.Stdin,
		out: os.Stdout,
	}
	pc.fs.StringVar(&pc.scopeName, "scope", "local-machine", "Who can decrypt the password: anywhere, local-machine, current-user")
	pc.fs.BoolVar(&pc.write, "write", false, "Store the result in the config file instead of printing it")
	return pc
}

// ProtectPasswordCommand reads a plaintext password from stdin and prints
// (or stores) its protected envelope.
type ProtectPasswordCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	in  io.Reader
	out io.Writer

	scopeName string
	scope     credential.Scope
	write     bool
}

func (p *ProtectPasswordCommand) Name() string {
	return p.fs.Name()
}

func (p *ProtectPasswordCommand) Init(args []string, ctx *AppContext) error {
	p.ctx = ctx

	if err := p.fs.Parse(args); err != nil {
		return err
	}

	scope, err := credential.ParseScope(p.scopeName)
	if err != nil {
		return err
	}
	p.scope = scope

	return nil
}

func (p *ProtectPasswordCommand) Run() error {
	plaintext, err := readPassword(p.in)
	if err != nil {
		return err
	}

	password, err := credential.Protect(plaintext, p.scope)
	if err != nil {
		return fmt.Errorf("failed to protect password with scope %s: %w", p.scope, err)
	}

	if !p.write {
		text, err := password.MarshalText()
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, string(text))
		return nil
	}

	cfg, err := loadConfigOrFail(p.ctx.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Password = password
	if err := cfg.WriteConfig(); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Password saved to %s\n", cfg.GetConfigPath())
	return nil
}

// readPassword returns the first line of r without the line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return line, nil
}
