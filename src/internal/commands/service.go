package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/kardianos/service"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

const serviceStopTimeout = 30 * time.Second

var svcConfig = &service.Config{
	Name:        "njupt-wifi-login",
	DisplayName: "NJUPT Wi-Fi Login",
	Description: "Keeps the campus network logged in.",
}

func CreateServiceCommand() *ServiceCommand {
	return &ServiceCommand{
		fs: flag.NewFlagSet("service", flag.ExitOnError),
	}
}

// ServiceCommand runs the login loop under the system service manager
// (systemd, launchd, Windows SCM). Installing the service is left to the
// platform tooling.
type ServiceCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	daemon *daemon.Daemon
}

func (s *ServiceCommand) Name() string {
	return s.fs.Name()
}

func (s *ServiceCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	s.cfg = cfg

	d, err := newDaemon(ctx, cfg)
	if err != nil {
		return err
	}
	s.daemon = d

	return nil
}

func (s *ServiceCommand) Run() error {
	defer log.Close()

	prg := newProgram(s.daemon)
	svc, err := service.New(prg, svcConfig)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if service.Interactive() {
		log.Warnf("Not running under a service manager, use \"run\" for foreground mode")
	}
	return svc.Run()
}

type loop interface {
	Run(ctx context.Context, sink daemon.EventSink) error
}

// program adapts the login loop to service.Interface. It is also the loop's
// EventSink: Stop requests cancellation and waits for OnStopped.
type program struct {
	loop    loop
	slot    daemon.CancellationSlot
	stopped chan struct{}
}

func newProgram(l loop) *program {
	return &program{
		loop:    l,
		stopped: make(chan struct{}),
	}
}

func (p *program) Start(s service.Service) error {
	go func() {
		if err := p.loop.Run(context.Background(), p); err != nil {
			// Run failed before OnStarted, so OnStopped will never come.
			log.Errorf("Login loop failed: %v", err)
			close(p.stopped)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	p.slot.Cancel()

	select {
	case <-p.stopped:
		return nil
	case <-time.After(serviceStopTimeout):
		return fmt.Errorf("timeout waiting for the login loop to stop")
	}
}

func (p *program) OnStarted() {
	log.Infof("Service started")
}

func (p *program) OnStopping() {
	log.Infof("Service stopping")
}

func (p *program) OnStopped() {
	log.Infof("Service stopped")
	close(p.stopped)
}

func (p *program) RegisterCancellation(cancel context.CancelFunc) {
	p.slot.Register(cancel)
}
