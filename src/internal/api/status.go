package api

import (
	"net/http"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

// GetStatus returns the daemon state.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.daemon.Snapshot()

	response := StatusResponse{
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		Running:              snap.Running,
		Interface:            snap.Interface,
		CheckIntervalSeconds: uint64(snap.CheckInterval.Seconds()),
		Network: NetworkInfo{
			Status: "pending",
			Checks: snap.Checks,
		},
	}

	if snap.Checks > 0 {
		checkedAt := snap.LastCheckAt
		response.Network.Status = snap.LastStatus.Status.String()
		response.Network.AP = snap.LastStatus.AP
		response.Network.CheckedAt = &checkedAt
		if snap.LastStatus.Cause != nil {
			response.Network.Detail = snap.LastStatus.Cause.Error()
		}
	}

	if snap.Logins > 0 {
		login := &LoginInfo{
			AttemptedAt: snap.LastLoginAt,
			Succeeded:   snap.LastLoginError == nil,
			Attempts:    snap.Logins,
		}
		if snap.LastLoginError != nil {
			login.ErrorCode = string(apperrors.CodeOf(snap.LastLoginError))
			login.Error = snap.LastLoginError.Error()
		}
		response.Login = login
	}

	if !snap.OffHoursUntil.IsZero() {
		until := snap.OffHoursUntil
		response.OffHours = OffHoursInfo{Active: true, Until: &until}
	}

	if h.configHasher != nil {
		response.Config = h.configInfo()
	}

	for _, svc := range snap.Services {
		info := ServiceInfo{Name: svc.Name, Running: svc.Running, Restarts: svc.Restarts}
		if svc.LastError != nil {
			info.LastError = svc.LastError.Error()
		}
		response.Services = append(response.Services, info)
	}

	writeJSONData(w, response)
}

func (h *Handler) configInfo() *ConfigInfo {
	currentHash, err := h.configHasher.GetCurrentConfigHash()
	if err != nil {
		log.Warnf("Failed to get current config hash: %v", err)
		currentHash = "error"
	}
	activeHash := h.configHasher.GetActiveConfigHash()

	return &ConfigInfo{
		CurrentHash: currentHash,
		ActiveHash:  activeHash,
		Outdated: currentHash != "" &&
			activeHash != "" &&
			currentHash != activeHash &&
			currentHash != "error",
	}
}

// TriggerCheck queues a check-and-login.
// POST /api/v1/check
func (h *Handler) TriggerCheck(w http.ResponseWriter, r *http.Request) {
	if !h.daemon.TriggerCheck() {
		WriteServiceUnavailable(w, "Login loop is not running")
		return
	}
	writeJSON(w, http.StatusAccepted, CheckResponse{Queued: true})
}
