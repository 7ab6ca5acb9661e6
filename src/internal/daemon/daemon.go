package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/dnsresolver"
	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/netwatch"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/offhours"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/portal"
)

const (
	// DebounceWindow drops signals arriving this soon after the last processed one.
	DebounceWindow = 5 * time.Second
	// MinCheckInterval is the shortest periodic check interval.
	MinCheckInterval = time.Minute
)

// Prober reports the current network status.
type Prober interface {
	Probe(ctx context.Context) portal.NetworkStatus
}

// Authenticator performs the portal login.
type Authenticator interface {
	Login(ctx context.Context, cred credential.Credential, ap portal.ApInfo) error
}

// Daemon owns the credential, the off-hours cache and the wake queue.
type Daemon struct {
	cred     credential.Credential
	iface    string
	interval time.Duration
	debounce time.Duration
	prober   Prober
	login    Authenticator
	offHours *offhours.Cache
	listener netwatch.Listener
	now      func() time.Time
	services []*attachedService
	restart  restartPolicy
	stopWait time.Duration

	mu    sync.RWMutex
	queue *signalQueue
	state Snapshot
}

// Snapshot is a point-in-time view of the daemon for the status API.
type Snapshot struct {
	Running       bool
	Interface     string
	CheckInterval time.Duration

	LastCheckAt time.Time
	LastStatus  portal.NetworkStatus
	Checks      uint64

	LastLoginAt    time.Time
	LastLoginError error
	Logins         uint64

	// OffHoursUntil is zero unless logins are suppressed.
	OffHoursUntil time.Time

	Services []ServiceStatus
}

// New builds the daemon from cfg. It fails with an INTERFACE_ERROR when the
// configured interface does not exist.
func New(cfg *config.Config) (*Daemon, error) {
	prober, login, err := BuildPortal(cfg)
	if err != nil {
		return nil, err
	}

	return newDaemon(daemonDeps{
		cred:     cfg.Credential(),
		iface:    cfg.Interface,
		interval: CheckInterval(cfg.CheckInterval),
		prober:   prober,
		login:    login,
		offHours: offhours.New(),
		listener: netwatch.New(cfg.Interface),
	}), nil
}

// BuildPortal wires the interface binder, the resolver and the HTTP client
// into a prober and a login client sharing them.
func BuildPortal(cfg *config.Config) (*portal.Prober, *portal.LoginClient, error) {
	binder, err := networking.NewBinder(cfg.Interface)
	if err != nil {
		return nil, nil, err
	}

	resolver, err := dnsresolver.New(cfg.DNSServers(), binder, cfg.FallbackIPs())
	if err != nil {
		return nil, nil, err
	}

	client := portal.NewHTTPClient(resolver, binder)
	endpoints := EndpointsFromConfig(cfg)
	prober := portal.NewProber(client, endpoints)
	login, err := portal.NewLoginClient(client, prober, endpoints)
	if err != nil {
		return nil, nil, err
	}
	return prober, login, nil
}

type daemonDeps struct {
	cred     credential.Credential
	iface    string
	interval time.Duration
	debounce time.Duration
	prober   Prober
	login    Authenticator
	offHours *offhours.Cache
	listener netwatch.Listener
	now      func() time.Time
	restart  restartPolicy
	stopWait time.Duration
}

func newDaemon(deps daemonDeps) *Daemon {
	if deps.debounce == 0 {
		deps.debounce = DebounceWindow
	}
	if deps.now == nil {
		deps.now = time.Now
	}
	if deps.offHours == nil {
		deps.offHours = offhours.New()
	}
	if deps.restart == (restartPolicy{}) {
		deps.restart = defaultRestartPolicy
	}
	if deps.stopWait == 0 {
		deps.stopWait = serviceStopTimeout
	}
	return &Daemon{
		cred:     deps.cred,
		iface:    deps.iface,
		interval: deps.interval,
		debounce: deps.debounce,
		prober:   deps.prober,
		login:    deps.login,
		offHours: deps.offHours,
		listener: deps.listener,
		now:      deps.now,
		restart:  deps.restart,
		stopWait: deps.stopWait,
	}
}

// EndpointsFromConfig merges the [portal] overrides with the built-in endpoints.
func EndpointsFromConfig(cfg *config.Config) portal.Endpoints {
	var endpoints portal.Endpoints
	if p := cfg.Portal; p != nil {
		endpoints = portal.Endpoints{
			CheckURLs:        p.CheckURLs,
			InfoURL:          p.InfoURL,
			LoginURL:         p.LoginURL,
			Protocol:         portal.Protocol(p.Protocol),
			Marker:           p.Marker,
			OffHoursMessages: p.OffHoursMessages,
		}
	}
	return endpoints.WithDefaults()
}

// CheckInterval converts check_interval seconds into the timer period.
// Zero disables the timer; anything shorter than MinCheckInterval is raised to it.
func CheckInterval(seconds uint64) time.Duration {
	if seconds == 0 {
		return 0
	}
	interval := time.Duration(seconds) * time.Second
	if interval < MinCheckInterval {
		log.Warnf("Regular check interval %v is too short, falling back to %v", interval, MinCheckInterval)
		return MinCheckInterval
	}
	return interval
}

// AttachService runs fn alongside the loop and restarts it with backoff when
// it fails or panics. fn must return when its context is cancelled. Must be
// called before Run.
func (d *Daemon) AttachService(name string, fn func(ctx context.Context) error) {
	d.services = append(d.services, newAttachedService(name, fn))
}

// Run blocks until ctx is cancelled or the cancel function handed to sink is called.
func (d *Daemon) Run(ctx context.Context, sink EventSink) error {
	if sink == nil {
		sink = NopEventSink{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := newSignalQueue()
	producerCtx, stopProducers := context.WithCancel(ctx)
	defer stopProducers()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.runTimer(producerCtx, queue)
	}()

	var handle netwatch.Handle
	if d.listener != nil {
		var err error
		handle, err = d.listener.Register(queue.Notify)
		if err != nil {
			stopProducers()
			queue.Close()
			wg.Wait()
			return apperrors.NewInternalError("failed to register network listener", err)
		}
	}
	if d.listener == nil || !d.listener.InitialNotification() {
		queue.Notify()
	}

	var services sync.WaitGroup
	for _, svc := range d.services {
		services.Add(1)
		go func() {
			defer services.Done()
			svc.supervise(producerCtx, d.restart)
		}()
	}

	d.setRunning(queue)
	sink.OnStarted()
	sink.RegisterCancellation(cancel)
	log.Infof("Started")

	d.consume(ctx, queue)

	log.Infof("Stopping")
	sink.OnStopping()

	d.setRunning(nil)
	stopProducers()
	if !waitTimeout(&services, d.stopWait) {
		log.Warnf("Attached services did not stop within %v", d.stopWait)
	}
	queue.Close()
	wg.Wait()
	if handle != nil {
		if err := handle.Close(); err != nil {
			log.Warnf("Failed to close network listener: %v", err)
		}
	}

	sink.OnStopped()
	log.Infof("Stopped")
	return nil
}

// TriggerCheck asks the loop for a check. It returns false when the loop is not running.
func (d *Daemon) TriggerCheck() bool {
	d.mu.RLock()
	queue := d.queue
	d.mu.RUnlock()

	if queue == nil {
		return false
	}
	return queue.Notify()
}

// Snapshot returns the current state.
func (d *Daemon) Snapshot() Snapshot {
	d.mu.RLock()
	s := d.state
	d.mu.RUnlock()

	s.Interface = d.iface
	s.CheckInterval = d.interval
	if until, ok := d.offHours.ExpiresAt(); ok && d.offHours.Expiration() > 0 {
		s.OffHoursUntil = until
	}
	for _, svc := range d.services {
		s.Services = append(s.Services, svc.snapshot())
	}
	return s
}

func (d *Daemon) setRunning(queue *signalQueue) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = queue
	d.state.Running = queue != nil
}

func (d *Daemon) runTimer(ctx context.Context, queue *signalQueue) {
	if d.interval == 0 {
		log.Infof("Regular check is disabled")
		return
	}

	if !sleep(ctx, d.interval) {
		return
	}
	for {
		if expiration := d.offHours.Expiration(); expiration > 0 {
			log.Debugf("Off hours, next regular check in %v", min(expiration, d.interval))
			if !sleep(ctx, min(expiration, d.interval)) {
				return
			}
			continue
		}
		if !queue.Notify() {
			return
		}
		if !sleep(ctx, d.interval) {
			return
		}
	}
}

func (d *Daemon) consume(ctx context.Context, queue *signalQueue) {
	var lastCheckAt time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-queue.C():
			if !ok {
				return
			}
		}

		checkAt := d.now()
		if !lastCheckAt.IsZero() && checkAt.Sub(lastCheckAt) < d.debounce {
			log.Debugf("Check requested %v after the previous one, skipping", checkAt.Sub(lastCheckAt))
			continue
		}
		lastCheckAt = checkAt

		d.checkAndLogin(ctx)
	}
}

func (d *Daemon) checkAndLogin(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	logger := log.WithFields(log.Fields{"attempt": uuid.NewString()})

	logger.Infof("Start to check network status")
	status := d.prober.Probe(ctx)
	d.recordStatus(status)
	if status.Status == portal.StatusDisconnected {
		logger.Errorf("Failed to get network status: %v", status.Cause)
		return
	}
	logger.Infof("Network status: %s", status)

	if status.Status != portal.StatusAuthenticationRequired || status.AP == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}

	logger.Infof("Start to login")
	err := d.login.Login(ctx, d.cred, *status.AP)
	d.recordLogin(err)

	switch {
	case err == nil:
		logger.Infof("Connected")
		d.offHours.Clear()
	case ctx.Err() != nil:
		logger.Debugf("Login cancelled: %v", err)
	case errors.Is(err, apperrors.ErrOffHours):
		logger.Errorf("Failed to connect: %v", err)
		d.offHours.Set()
	default:
		logger.Errorf("Failed to connect: %v", err)
	}
}

func (d *Daemon) recordStatus(status portal.NetworkStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.LastCheckAt = d.now()
	d.state.LastStatus = status
	d.state.Checks++
}

func (d *Daemon) recordLogin(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.LastLoginAt = d.now()
	d.state.LastLoginError = err
	d.state.Logins++
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
