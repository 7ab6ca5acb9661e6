package commands

import (
	"fmt"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/api"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
}

// loadConfigOrFail loads configuration from file without validating it.
func loadConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// loadAndValidateConfigOrFail loads configuration from file, validates it and
// applies its log policy.
func loadAndValidateConfigOrFail(ctx *AppContext) (*config.Config, error) {
	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := applyLogPolicy(cfg, ctx.Verbose); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyLogPolicy configures logging from [log_policy]. -verbose wins over the configured level.
func applyLogPolicy(cfg *config.Config, verbose bool) error {
	if cfg.LogPolicy == nil {
		return nil
	}
	if cfg.LogPolicy.Level != "" && !verbose {
		if err := log.SetLevel(cfg.LogPolicy.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogPolicy.Level, err)
		}
	}
	if path := cfg.LogFilePath(); path != "" {
		if err := log.SetOutputFile(path); err != nil {
			return err
		}
	}
	return nil
}

// newDaemon builds the login loop and attaches the status API when enabled.
func newDaemon(ctx *AppContext, cfg *config.Config) (*daemon.Daemon, error) {
	d, err := daemon.New(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.API != nil && cfg.API.Enable {
		hasher := config.NewConfigHasher(ctx.ConfigPath)
		if hash, err := config.CalculateHash(cfg); err != nil {
			log.Warnf("Failed to calculate config hash: %v", err)
		} else {
			hasher.SetActiveConfigHash(hash)
		}

		server := api.NewServer(cfg.API.ListenAddr, api.NewRouter(api.NewHandler(d, hasher)))
		d.AttachService("status API", server.Run)
	} else {
		log.Debugf("Status API is disabled")
	}

	return d, nil
}
