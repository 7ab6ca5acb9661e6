package api

import (
	"encoding/json"
	"net/http"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/config"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/daemon"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
)

// Daemon is the part of the login loop the API needs.
// This allows the API to be tested without a running loop.
type Daemon interface {
	Snapshot() daemon.Snapshot
	TriggerCheck() bool
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	daemon       Daemon
	configHasher *config.ConfigHasher

	lookupInterface func(name string) (*networking.InterfaceInfo, error)
	listInterfaces  func() ([]networking.InterfaceInfo, error)
}

// NewHandler creates a new API handler. configHasher may be nil.
func NewHandler(d Daemon, configHasher *config.ConfigHasher) *Handler {
	return &Handler{
		daemon:          d,
		configHasher:    configHasher,
		lookupInterface: networking.LookupInterface,
		listInterfaces:  networking.ListInterfaces,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
