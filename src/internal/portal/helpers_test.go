package portal

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// loopbackResolver sends every hostname to 127.0.0.1 so tests can use portal hostnames.
type loopbackResolver struct{}

func (loopbackResolver) LookupIP(context.Context, string) ([]net.IP, error) {
	return []net.IP{net.IPv4(127, 0, 0, 1)}, nil
}

func newServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient() *http.Client {
	return NewHTTPClient(loopbackResolver{}, nil)
}
