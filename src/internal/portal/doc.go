// Package portal talks to the campus captive portal: it detects whether the
// network is open, extracts the access-point parameters from the portal page
// and performs the login exchange.
//
// All requests go through a client built by NewHTTPClient, which resolves names
// with the interface-bound resolver, never uses a proxy and never follows
// redirects.
package portal
