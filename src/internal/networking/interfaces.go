//go:build linux

package networking

import (
	"net"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/vishvananda/netlink"
)

// Interface wraps a netlink link.
type Interface struct {
	netlink.Link
}

func GetInterface(interfaceName string) (*Interface, error) {
	link, err := netlink.LinkByName(interfaceName)
	if err != nil {
		return nil, apperrors.NewInterfaceError("interface "+interfaceName+" not found", err)
	}
	return &Interface{link}, nil
}

func GetInterfaceList() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	var interfaces []Interface
	for _, link := range links {
		interfaces = append(interfaces, Interface{link})
	}
	return interfaces, nil
}

func (iface *Interface) IsUp() bool {
	return iface.Attrs().Flags&net.FlagUp != 0
}

func (iface *Interface) IsLoopback() bool {
	return iface.Attrs().Flags&net.FlagLoopback != 0
}

func (iface *Interface) AddrsIps() ([]net.IP, error) {
	addrs, err := netlink.AddrList(iface.Link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, addr := range addrs {
		ips = append(ips, addr.IP)
	}
	return ips, nil
}

func (iface *Interface) info() (InterfaceInfo, error) {
	ips, err := iface.AddrsIps()
	if err != nil {
		return InterfaceInfo{}, err
	}
	attrs := iface.Attrs()
	return InterfaceInfo{
		Name:     attrs.Name,
		Index:    attrs.Index,
		Up:       iface.IsUp(),
		Loopback: iface.IsLoopback(),
		Addrs:    ips,
	}, nil
}

// LookupInterface returns the named interface and its addresses.
func LookupInterface(name string) (*InterfaceInfo, error) {
	iface, err := GetInterface(name)
	if err != nil {
		return nil, err
	}
	info, err := iface.info()
	if err != nil {
		return nil, apperrors.NewInterfaceError("failed to list addresses of "+name, err)
	}
	return &info, nil
}

// ListInterfaces returns all links known to the kernel.
func ListInterfaces() ([]InterfaceInfo, error) {
	list, err := GetInterfaceList()
	if err != nil {
		return nil, apperrors.NewInterfaceError("failed to list interfaces", err)
	}
	result := make([]InterfaceInfo, 0, len(list))
	for i := range list {
		info, err := list[i].info()
		if err != nil {
			return nil, apperrors.NewInterfaceError("failed to list addresses of "+list[i].Attrs().Name, err)
		}
		result = append(result, info)
	}
	return result, nil
}
