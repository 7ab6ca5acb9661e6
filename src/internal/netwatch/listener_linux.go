//go:build linux

package netwatch

import (
	"net"
	"sync"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

type routeListener struct {
	iface string
}

// New returns a listener for new default-capable IPv4 routes. A non-empty
// iface restricts notifications to routes leaving through that interface.
func New(iface string) Listener {
	return &routeListener{iface: iface}
}

func (l *routeListener) InitialNotification() bool {
	return false
}

func (l *routeListener) Register(onChange func() bool) (Handle, error) {
	linkIndex := 0
	if l.iface != "" {
		link, err := netlink.LinkByName(l.iface)
		if err != nil {
			return nil, apperrors.NewInterfaceError("interface "+l.iface+" not found", err)
		}
		linkIndex = link.Attrs().Index
	}

	h := newRouteHandle()
	updates := make(chan netlink.RouteUpdate)
	err := netlink.RouteSubscribeWithOptions(updates, h.done, netlink.RouteSubscribeOptions{
		ErrorCallback: func(err error) {
			log.Warnf("Route subscription error: %v", err)
		},
	})
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to subscribe to route updates", err)
	}

	log.Debugf("Listening for route changes (link index %d)", linkIndex)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		pump(updates, h.done, linkIndex, onChange)
		h.stop()
	}()
	return h, nil
}

// pump forwards matching updates until done closes, updates closes, or onChange returns false.
func pump(updates <-chan netlink.RouteUpdate, done <-chan struct{}, linkIndex int, onChange func() bool) {
	for {
		select {
		case <-done:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if !isGatewayRoute(u, linkIndex) {
				continue
			}
			log.Debugf("New route via %v on link %d", routeGateway(u.Route), u.LinkIndex)
			if !onChange() {
				return
			}
		}
	}
}

func isGatewayRoute(u netlink.RouteUpdate, linkIndex int) bool {
	if u.Type != unix.RTM_NEWROUTE {
		return false
	}
	gw := routeGateway(u.Route)
	if gw == nil || gw.To4() == nil {
		return false
	}
	if linkIndex == 0 {
		return true
	}
	if u.LinkIndex == linkIndex {
		return true
	}
	for _, hop := range u.MultiPath {
		if hop.LinkIndex == linkIndex && hop.Gw != nil {
			return true
		}
	}
	return false
}

func routeGateway(r netlink.Route) net.IP {
	if r.Gw != nil {
		return r.Gw
	}
	for _, hop := range r.MultiPath {
		if hop.Gw != nil {
			return hop.Gw
		}
	}
	return nil
}

type routeHandle struct {
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newRouteHandle() *routeHandle {
	return &routeHandle{done: make(chan struct{})}
}

func (h *routeHandle) stop() {
	h.once.Do(func() { close(h.done) })
}

func (h *routeHandle) Close() error {
	h.stop()
	h.wg.Wait()
	return nil
}
