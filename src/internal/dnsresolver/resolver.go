// Package dnsresolver resolves hostnames through DNS servers reached over the
// configured interface, with static fallbacks for hosts that must stay
// reachable when DNS is captive or down.
package dnsresolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/networking"
	"github.com/miekg/dns"
)

const (
	defaultDNSPort = "53"

	queryTimeout = 3 * time.Second
)

// DefaultServers are used when no servers are configured.
var DefaultServers = []string{"8.8.8.8:53", "8.8.4.4:53"}

// DefaultFallback keeps the portal reachable while public DNS is captive.
// Configured entries replace these per host.
var DefaultFallback = map[string][]net.IP{
	"p.njupt.edu.cn": {net.IPv4(10, 10, 244, 11)},
}

// Resolver looks up A and AAAA records over UDP.
type Resolver struct {
	servers  []string
	binder   *networking.Binder
	fallback map[string][]net.IP
	timeout  time.Duration
}

// New creates a resolver. Servers without a port get port 53. A nil binder
// leaves sockets unbound. fallback is merged over DefaultFallback.
func New(servers []string, binder *networking.Binder, fallback map[string][]net.IP) (*Resolver, error) {
	if len(servers) == 0 {
		servers = DefaultServers
	}

	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		addr := s
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(strings.Trim(addr, "[]"), defaultDNSPort)
		}
		host, _, err := net.SplitHostPort(addr)
		if err != nil || net.ParseIP(host) == nil {
			return nil, apperrors.NewConfigError("invalid DNS server address "+s, err)
		}
		normalized = append(normalized, addr)
	}

	fb := make(map[string][]net.IP, len(DefaultFallback)+len(fallback))
	for host, ips := range DefaultFallback {
		fb[canonicalName(host)] = ips
	}
	for host, ips := range fallback {
		fb[canonicalName(host)] = ips
	}

	return &Resolver{
		servers:  normalized,
		binder:   binder,
		fallback: fb,
		timeout:  queryTimeout,
	}, nil
}

func canonicalName(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

// Servers returns the normalized server list.
func (r *Resolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// LookupIP returns IPv4 addresses followed by IPv6 addresses for host.
// IP literals are returned as is.
func (r *Resolver) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		return []net.IP{ip}, nil
	}

	ips, err := r.lookup(ctx, host)
	if err == nil {
		return ips, nil
	}

	if fb, ok := r.fallback[canonicalName(host)]; ok && len(fb) > 0 {
		log.Errorf("Fallback addrs for %s is used due to %v", host, err)
		return append([]net.IP(nil), fb...), nil
	}
	return nil, apperrors.NewDNSError("failed to resolve "+host, err)
}

func (r *Resolver) lookup(ctx context.Context, host string) ([]net.IP, error) {
	name := dns.Fqdn(host)

	var (
		result  []net.IP
		lastErr error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ips, err := r.query(ctx, name, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		result = append(result, ips...)
	}

	if len(result) > 0 {
		return result, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no addresses for %s", host)
	}
	return nil, lastErr
}

// query asks each server in turn until one answers.
func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]net.IP, error) {
	req := new(dns.Msg)
	req.SetQuestion(name, qtype)
	req.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		client, err := r.client(server)
		if err != nil {
			lastErr = err
			continue
		}

		log.Debugf("[%04x] Querying %s for %s %s", req.Id, server, name, dns.TypeToString[qtype])
		resp, _, err := client.ExchangeContext(ctx, req, server)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Debugf("[%04x] Timeout from %s for %s", req.Id, server, name)
			} else {
				log.Debugf("[%04x] Error from %s for %s: %v", req.Id, server, name, err)
			}
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("%s answered %s", server, dns.RcodeToString[resp.Rcode])
			continue
		}
		return answerIPs(resp), nil
	}
	return nil, lastErr
}

func (r *Resolver) client(server string) (*dns.Client, error) {
	host, _, _ := net.SplitHostPort(server)
	target, err := r.binder.Target(networking.FamilyOf(net.ParseIP(host)))
	if err != nil {
		return nil, err
	}
	return &dns.Client{
		Net:     "udp",
		Timeout: r.timeout,
		Dialer:  target.Dialer("udp", r.timeout),
	}, nil
}

func answerIPs(resp *dns.Msg) []net.IP {
	var ips []net.IP
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			ips = append(ips, v.A)
		case *dns.AAAA:
			ips = append(ips, v.AAAA)
		}
	}
	return ips
}
