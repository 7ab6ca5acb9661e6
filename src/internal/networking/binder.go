package networking

import (
	"net"
	"time"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
)

// Family is the address family of a destination.
type Family int

const (
	FamilyAny Family = iota
	FamilyV4
	FamilyV6
)

// FamilyOf returns the family of ip.
func FamilyOf(ip net.IP) Family {
	switch {
	case ip == nil:
		return FamilyAny
	case ip.To4() != nil:
		return FamilyV4
	default:
		return FamilyV6
	}
}

func (f Family) matches(ip net.IP) bool {
	switch f {
	case FamilyV4:
		return ip.To4() != nil
	case FamilyV6:
		return ip.To4() == nil && ip.To16() != nil
	default:
		return true
	}
}

// InterfaceInfo describes a network interface.
type InterfaceInfo struct {
	Name     string   `json:"name"`
	Index    int      `json:"index"`
	Up       bool     `json:"up"`
	Loopback bool     `json:"loopback"`
	Addrs    []net.IP `json:"addrs"`
}

// SelectAddress picks the first address of the preferred family, falling back
// to the first address. It returns nil when addrs has no usable address.
func SelectAddress(addrs []net.IP, family Family) net.IP {
	var first net.IP
	for _, ip := range addrs {
		if ip == nil || ip.IsUnspecified() {
			continue
		}
		if first == nil {
			first = ip
		}
		if family.matches(ip) {
			return ip
		}
	}
	return first
}

// BindTarget says how a socket is tied to the interface: by device name or by
// local address. The zero value leaves sockets unbound.
type BindTarget struct {
	Device    string
	LocalAddr net.IP
}

// Dialer returns a dialer for network ("tcp", "udp", ...) bound to the target.
func (t *BindTarget) Dialer(network string, timeout time.Duration) *net.Dialer {
	d := &net.Dialer{Timeout: timeout}
	if t == nil {
		return d
	}
	if t.Device != "" {
		d.Control = deviceControl(t.Device)
		return d
	}
	if t.LocalAddr != nil {
		switch network {
		case "udp", "udp4", "udp6":
			d.LocalAddr = &net.UDPAddr{IP: t.LocalAddr}
		default:
			d.LocalAddr = &net.TCPAddr{IP: t.LocalAddr}
		}
	}
	return d
}

// Binder produces bind targets for one interface. A Binder with an empty
// interface name binds nothing.
type Binder struct {
	name   string
	lookup func(string) (*InterfaceInfo, error)
}

// NewBinder checks that the interface exists and returns a binder for it.
// An empty name returns an unbound binder.
func NewBinder(name string) (*Binder, error) {
	b := &Binder{name: name, lookup: LookupInterface}
	if name == "" {
		return b, nil
	}
	if _, err := b.lookup(name); err != nil {
		return nil, err
	}
	return b, nil
}

// Interface returns the bound interface name, or "".
func (b *Binder) Interface() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Target resolves how to bind a socket heading to a destination of the given family.
func (b *Binder) Target(family Family) (*BindTarget, error) {
	if b == nil || b.name == "" {
		return &BindTarget{}, nil
	}
	if bindByDevice {
		return &BindTarget{Device: b.name}, nil
	}

	info, err := b.lookup(b.name)
	if err != nil {
		return nil, err
	}
	addr := SelectAddress(info.Addrs, family)
	if addr == nil {
		return nil, apperrors.NewInterfaceError("interface "+b.name+" has no usable address", nil)
	}
	return &BindTarget{LocalAddr: addr}, nil
}
