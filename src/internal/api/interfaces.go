package api

import (
	"net/http"
)

// GetInterfaces returns a list of all network interfaces on the system.
// GET /api/v1/interfaces
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := h.listInterfaces()
	if err != nil {
		WriteInternalError(w, "Failed to get network interfaces: "+err.Error())
		return
	}

	writeJSONData(w, InterfacesResponse{Interfaces: interfaces})
}
