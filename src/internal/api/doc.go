// Package api serves the optional local status API of the login daemon.
//
// It is off unless [api] enable = true and binds to loopback by default.
// Clients outside private address ranges get 403.
//
//	GET  /api/v1/status      last probe result, last login and off-hours state
//	POST /api/v1/check       queue a check-and-login (same as SIGUSR1)
//	GET  /api/v1/health      whether the loop runs and the interface exists
//	GET  /api/v1/interfaces  interfaces usable as the "interface" setting
//
// Successful bodies are {"data": ...}. Failures are
// {"error": {"code": "...", "message": "..."}} with a lower-case code such
// as "service_unavailable".
package api
