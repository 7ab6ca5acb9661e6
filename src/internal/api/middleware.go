package api

import (
	"mime"
	"net/http"
	"net/netip"
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

// JSONContentType rejects POST bodies that are not JSON. Empty bodies pass.
func JSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength > 0 {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
					WriteInvalidRequest(w, "Content-Type must be application/json")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debugf("API %s %s from %s: %d in %v", r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start))
	})
}

// Recovery turns a handler panic into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Errorf("Panic while serving %s %s: %v", r.Method, r.URL.Path, v)
				WriteInternalError(w, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// PrivateSubnetOnly lets through loopback, link-local and RFC 1918 / ULA
// clients. Only the socket peer address is trusted; X-Forwarded-For is ignored.
func PrivateSubnetOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, ok := clientAddr(r)
		if !ok {
			log.Warnf("Rejected API request with unparsable peer address %q", r.RemoteAddr)
			WriteForbidden(w, "Access denied")
			return
		}
		if !isPrivate(addr) {
			log.Warnf("Rejected API request from %s", addr)
			WriteForbidden(w, "Access denied: only private networks are allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isPrivate(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
}

func clientAddr(r *http.Request) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr(), true
	}
	addr, err := netip.ParseAddr(r.RemoteAddr)
	return addr, err == nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
