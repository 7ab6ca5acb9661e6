package portal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
)

// RequestTimeout bounds every portal and probe request.
const RequestTimeout = 30 * time.Second

// Resolver resolves hostnames to addresses.
type Resolver interface {
	LookupIP(ctx context.Context, host string) ([]net.IP, error)
}

// Binder ties outgoing sockets to an interface.
type Binder interface {
	Target(family networking.Family) (*networking.BindTarget, error)
}

// NewHTTPClient builds the client used for all portal traffic. A nil binder
// leaves sockets unbound.
func NewHTTPClient(resolver Resolver, binder Binder) *http.Client {
	transport := &http.Transport{
		Proxy:               nil,
		DialContext:         dialContext(resolver, binder),
		TLSHandshakeTimeout: 10 * time.Second,
		// Connections must not outlive a network change.
		DisableKeepAlives: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func dialContext(resolver Resolver, binder Binder) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := resolver.LookupIP(ctx, host)
		if err != nil {
			return nil, err
		}

		lastErr := errors.New("no addresses")
		for _, ip := range ips {
			target := &networking.BindTarget{}
			if binder != nil {
				if target, err = binder.Target(networking.FamilyOf(ip)); err != nil {
					lastErr = err
					continue
				}
			}

			conn, err := target.Dialer(network, RequestTimeout).DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				break
			}
		}
		return nil, apperrors.NewNetworkError("failed to connect to "+addr, lastErr)
	}
}
