package api

import (
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/portal"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse returns the daemon state.
type StatusResponse struct {
	Version              VersionInfo   `json:"version"`
	Running              bool          `json:"running"`
	Interface            string        `json:"interface,omitempty"`
	CheckIntervalSeconds uint64        `json:"check_interval_seconds"` // 0 = regular check disabled
	Network              NetworkInfo   `json:"network"`
	Login                *LoginInfo    `json:"login,omitempty"` // nil until the first attempt
	OffHours             OffHoursInfo  `json:"off_hours"`
	Config               *ConfigInfo   `json:"config,omitempty"`
	Services             []ServiceInfo `json:"services,omitempty"`
}

// ServiceInfo reports an attached service such as this API itself.
type ServiceInfo struct {
	Name      string `json:"name"`
	Running   bool   `json:"running"`
	Restarts  int    `json:"restarts"`
	LastError string `json:"last_error,omitempty"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// NetworkInfo describes the last probe.
type NetworkInfo struct {
	Status    string         `json:"status"` // "pending" before the first probe
	AP        *portal.ApInfo `json:"ap,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	CheckedAt *time.Time     `json:"checked_at,omitempty"`
	Checks    uint64         `json:"checks"`
}

// LoginInfo describes the last login attempt.
type LoginInfo struct {
	AttemptedAt time.Time `json:"attempted_at"`
	Succeeded   bool      `json:"succeeded"`
	ErrorCode   string    `json:"error_code,omitempty"`
	Error       string    `json:"error,omitempty"`
	Attempts    uint64    `json:"attempts"`
}

// OffHoursInfo reports whether logins are suppressed for the night.
type OffHoursInfo struct {
	Active bool       `json:"active"`
	Until  *time.Time `json:"until,omitempty"`
}

// ConfigInfo compares the config file on disk with the one the daemon loaded.
type ConfigInfo struct {
	CurrentHash string `json:"current_hash"`
	ActiveHash  string `json:"active_hash"`
	Outdated    bool   `json:"outdated"`
}

// CheckResponse is returned by POST /api/v1/check.
type CheckResponse struct {
	Queued bool `json:"queued"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// InterfacesResponse represents the response for the interfaces list endpoint.
type InterfacesResponse struct {
	Interfaces []networking.InterfaceInfo `json:"interfaces"`
}
