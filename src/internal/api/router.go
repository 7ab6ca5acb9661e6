package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the handlers under /api/v1. Middlewares run in order:
// panic recovery, request logging, the private-subnet filter and the JSON
// content type.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery, Logger, PrivateSubnetOnly, JSONContentType)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/status", h.GetStatus)
		api.Get("/health", h.CheckHealth)
		api.Get("/interfaces", h.GetInterfaces)
		api.Post("/check", h.TriggerCheck)
	})
	return r
}
