package dnsresolver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs an in-process DNS server on loopback and returns its address.
func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func portalHandler(w dns.ResponseWriter, req *dns.Msg) {
	resp := new(dns.Msg)
	resp.SetReply(req)
	q := req.Question[0]
	if q.Name == "p.njupt.edu.cn." {
		switch q.Qtype {
		case dns.TypeA:
			rr, _ := dns.NewRR("p.njupt.edu.cn. 60 IN A 10.10.244.11")
			resp.Answer = append(resp.Answer, rr)
		case dns.TypeAAAA:
			rr, _ := dns.NewRR("p.njupt.edu.cn. 60 IN AAAA 2001:da8:1032::11")
			resp.Answer = append(resp.Answer, rr)
		}
	} else {
		resp.Rcode = dns.RcodeNameError
	}
	_ = w.WriteMsg(resp)
}

func TestLookupIP_Answers(t *testing.T) {
	addr := startServer(t, portalHandler)
	r, err := New([]string{addr}, nil, nil)
	require.NoError(t, err)

	ips, err := r.LookupIP(context.Background(), "p.njupt.edu.cn")
	require.NoError(t, err)
	require.Len(t, ips, 2)
	assert.Equal(t, "10.10.244.11", ips[0].String())
	assert.Equal(t, "2001:da8:1032::11", ips[1].String())
}

func TestLookupIP_Literal(t *testing.T) {
	r, err := New(nil, nil, nil)
	require.NoError(t, err)

	ips, err := r.LookupIP(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ips[0].String())

	ips, err = r.LookupIP(context.Background(), "[::1]")
	require.NoError(t, err)
	assert.Equal(t, "::1", ips[0].String())
}

func TestLookupIP_Fallback(t *testing.T) {
	addr := startServer(t, portalHandler)
	fallback := map[string][]net.IP{"Connect.Rom.Miui.com": {net.ParseIP("192.0.2.7")}}
	r, err := New([]string{addr}, nil, fallback)
	require.NoError(t, err)

	ips, err := r.LookupIP(context.Background(), "connect.rom.miui.com")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Equal(t, "192.0.2.7", ips[0].String())
}

func TestLookupIP_NoFallback(t *testing.T) {
	addr := startServer(t, portalHandler)
	r, err := New([]string{addr}, nil, nil)
	require.NoError(t, err)

	_, err = r.LookupIP(context.Background(), "unknown.example")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDNS))
}

func nxdomainHandler(w dns.ResponseWriter, req *dns.Msg) {
	resp := new(dns.Msg)
	resp.SetRcode(req, dns.RcodeNameError)
	_ = w.WriteMsg(resp)
}

func TestLookupIP_DefaultPortalFallback(t *testing.T) {
	addr := startServer(t, nxdomainHandler)
	r, err := New([]string{addr}, nil, nil)
	require.NoError(t, err)

	ips, err := r.LookupIP(context.Background(), "P.NJUPT.EDU.CN.")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Equal(t, "10.10.244.11", ips[0].String())
}

func TestLookupIP_ConfiguredFallbackOverridesDefault(t *testing.T) {
	addr := startServer(t, nxdomainHandler)

	r, err := New([]string{addr}, nil, map[string][]net.IP{"p.njupt.edu.cn": {net.ParseIP("10.10.244.12")}})
	require.NoError(t, err)
	ips, err := r.LookupIP(context.Background(), "p.njupt.edu.cn")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Equal(t, "10.10.244.12", ips[0].String())
}

func TestLookupIP_SecondServer(t *testing.T) {
	dead, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := dead.LocalAddr().String()
	require.NoError(t, dead.Close())

	addr := startServer(t, portalHandler)
	r, err := New([]string{deadAddr, addr}, nil, nil)
	require.NoError(t, err)
	r.timeout = 500 * time.Millisecond

	ips, err := r.LookupIP(context.Background(), "p.njupt.edu.cn")
	require.NoError(t, err)
	assert.NotEmpty(t, ips)
}

func TestLookupIP_Cancelled(t *testing.T) {
	addr := startServer(t, portalHandler)
	r, err := New([]string{addr}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.LookupIP(ctx, "p.njupt.edu.cn")
	assert.Error(t, err)
}

func TestNew_Servers(t *testing.T) {
	r, err := New([]string{"1.1.1.1", "2606:4700:4700::1111", "9.9.9.9:5353"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.1.1:53", "[2606:4700:4700::1111]:53", "9.9.9.9:5353"}, r.Servers())

	r, err = New(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultServers, r.Servers())

	_, err = New([]string{"dns.google"}, nil, nil)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}
