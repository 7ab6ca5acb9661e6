package config

import (
	"net"
	"path/filepath"
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/utils"
)

const (
	// DefaultCheckIntervalSeconds is used when check_interval is absent.
	DefaultCheckIntervalSeconds = 1200
	// DefaultAPIListenAddr keeps the status API on loopback.
	DefaultAPIListenAddr = "127.0.0.1:12380"
)

type Config struct {
	// UserID is the campus account id.
	UserID string `toml:"userid" json:"userid" validate:"required"`
	// Password is plaintext or a protected envelope produced by "protect-password".
	Password credential.Password `toml:"password" json:"-"`
	// ISP is one of EDU, CMCC or CT.
	ISP credential.IspType `toml:"isp" json:"isp" validate:"required,isp"`
	// CheckInterval is the periodic check interval in seconds (0 = disabled, values below 60 are raised to 60).
	CheckInterval uint64 `toml:"check_interval" json:"check_interval"`
	// Interface binds all portal traffic to this interface (empty = system routing).
	Interface string `toml:"interface,omitempty" json:"interface,omitempty"`

	LogPolicy *LogPolicyConfig `toml:"log_policy,omitempty" json:"log_policy,omitempty"`
	DNS       *DNSConfig       `toml:"dns,omitempty" json:"dns,omitempty"`
	Portal    *PortalConfig    `toml:"portal,omitempty" json:"portal,omitempty"`
	API       *APIConfig       `toml:"api,omitempty" json:"api,omitempty"`

	_absConfigFilePath string
}

type LogPolicyConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=trace debug info warn warning error"`
	// File appends logs to this path instead of the console.
	File string `toml:"file,omitempty" json:"file,omitempty"`
}

type DNSConfig struct {
	// Servers are queried in order (default: 8.8.8.8, 8.8.4.4).
	Servers []string `toml:"servers,omitempty" json:"servers,omitempty" validate:"dive,dns_server"`
	// Fallback maps hostnames to addresses used when resolution fails.
	Fallback map[string][]string `toml:"fallback,omitempty" json:"fallback,omitempty" validate:"dive,keys,hostname_rfc1123,endkeys,min=1,dive,ip"`
}

type PortalConfig struct {
	// CheckURLs answer 204 when the internet is reachable. They are used in rotation.
	CheckURLs []string `toml:"check_urls,omitempty" json:"check_urls,omitempty" validate:"dive,url"`
	// InfoURL is the portal page carrying the client address.
	InfoURL string `toml:"info_url,omitempty" json:"info_url,omitempty" validate:"omitempty,url"`
	// LoginURL is a template. Available variables: {{account}}, {{password}}, {{user_ip}}, {{ac_ip}}, {{ac_name}}.
	LoginURL string `toml:"login_url,omitempty" json:"login_url,omitempty" validate:"omitempty,login_url"`
	// Protocol is "jsonp" (default) or "form".
	Protocol string `toml:"protocol,omitempty" json:"protocol,omitempty" validate:"omitempty,oneof=jsonp form"`
	// Marker identifies the campus portal in intercepted responses.
	Marker string `toml:"marker,omitempty" json:"marker,omitempty"`
	// OffHoursMessages are portal replies meaning logins are closed for the night.
	OffHoursMessages []string `toml:"off_hours_messages,omitempty" json:"off_hours_messages,omitempty" validate:"dive,required"`
}

type APIConfig struct {
	// Enable starts the local status API.
	Enable bool `toml:"enable" json:"enable"`
	// ListenAddr is host:port (default: 127.0.0.1:12380).
	ListenAddr string `toml:"listen_addr,omitempty" json:"listen_addr,omitempty" validate:"hostport_or_empty"`
}

// Credential returns the login credential.
func (c *Config) Credential() credential.Credential {
	return credential.Credential{
		UserID:   c.UserID,
		Password: c.Password,
		ISP:      c.ISP,
	}
}

// CheckIntervalDuration returns check_interval as a duration, unclamped.
func (c *Config) CheckIntervalDuration() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

// FallbackIPs returns the parsed static DNS fallbacks.
func (c *Config) FallbackIPs() map[string][]net.IP {
	result := make(map[string][]net.IP)
	if c.DNS == nil {
		return result
	}
	for host, addrs := range c.DNS.Fallback {
		for _, a := range addrs {
			if ip := net.ParseIP(a); ip != nil {
				result[host] = append(result[host], ip)
			}
		}
	}
	return result
}

// DNSServers returns the configured servers, or nil for the defaults.
func (c *Config) DNSServers() []string {
	if c.DNS == nil {
		return nil
	}
	return c.DNS.Servers
}

// GetConfigPath returns the absolute path the config was loaded from.
func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

// SetConfigPath sets where WriteConfig saves the config.
func (c *Config) SetConfigPath(path string) {
	c._absConfigFilePath = path
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// LogFilePath returns log_policy.file resolved against the config directory.
func (c *Config) LogFilePath() string {
	if c.LogPolicy == nil {
		return ""
	}
	return utils.ResolvePath(c.LogPolicy.File, c.GetConfigDir())
}

// applyDefaults fills absent sections.
func (c *Config) applyDefaults() {
	if c.LogPolicy == nil {
		c.LogPolicy = &LogPolicyConfig{}
	}
	if c.LogPolicy.Level == "" {
		c.LogPolicy.Level = "info"
	}
	if c.DNS == nil {
		c.DNS = &DNSConfig{}
	}
	if c.Portal == nil {
		c.Portal = &PortalConfig{}
	}
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = DefaultAPIListenAddr
	}
}

// NewDefaultConfig returns a config with defaults applied.
func NewDefaultConfig() *Config {
	c := &Config{CheckInterval: DefaultCheckIntervalSeconds}
	c.applyDefaults()
	return c
}
