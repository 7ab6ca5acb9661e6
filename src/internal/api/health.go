package api

import (
	"net/http"
)

// CheckHealth reports whether the loop is running and the bound interface still exists.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.daemon.Snapshot()

	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	if snap.Running {
		response.Checks["login_loop"] = CheckResult{
			Passed:  true,
			Message: "Login loop is running",
		}
	} else {
		response.Healthy = false
		response.Checks["login_loop"] = CheckResult{
			Passed:  false,
			Message: "Login loop is not running",
		}
	}

	if snap.Interface == "" {
		response.Checks["interface"] = CheckResult{
			Passed:  true,
			Message: "Using system routing",
		}
	} else if _, err := h.lookupInterface(snap.Interface); err != nil {
		response.Healthy = false
		response.Checks["interface"] = CheckResult{
			Passed:  false,
			Message: err.Error(),
		}
	} else {
		response.Checks["interface"] = CheckResult{
			Passed:  true,
			Message: "Interface " + snap.Interface + " is present",
		}
	}

	status := http.StatusOK
	if !response.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}
