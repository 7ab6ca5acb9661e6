//go:build !linux

package networking

import (
	"net"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
)

func infoFromNet(iface net.Interface) (InterfaceInfo, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return InterfaceInfo{}, err
	}
	var ips []net.IP
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			ips = append(ips, ipnet.IP)
		}
	}
	return InterfaceInfo{
		Name:     iface.Name,
		Index:    iface.Index,
		Up:       iface.Flags&net.FlagUp != 0,
		Loopback: iface.Flags&net.FlagLoopback != 0,
		Addrs:    ips,
	}, nil
}

// LookupInterface returns the named interface and its addresses.
func LookupInterface(name string) (*InterfaceInfo, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, apperrors.NewInterfaceError("interface "+name+" not found", err)
	}
	info, err := infoFromNet(*iface)
	if err != nil {
		return nil, apperrors.NewInterfaceError("failed to list addresses of "+name, err)
	}
	return &info, nil
}

// ListInterfaces returns all interfaces known to the OS.
func ListInterfaces() ([]InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, apperrors.NewInterfaceError("failed to list interfaces", err)
	}
	result := make([]InterfaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		info, err := infoFromNet(iface)
		if err != nil {
			return nil, apperrors.NewInterfaceError("failed to list addresses of "+iface.Name, err)
		}
		result = append(result, info)
	}
	return result, nil
}
