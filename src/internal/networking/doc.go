// Package networking resolves the configured network interface and binds
// outgoing sockets to it.
//
// On Linux sockets are bound at device level with SO_BINDTODEVICE, so routing
// follows the interface even if its address changes. Elsewhere the socket is
// bound to one of the interface's local addresses, preferring the address
// family of the destination.
//
// # Example Usage
//
//	binder, err := networking.NewBinder("wlan0")
//	if err != nil {
//	    return err // INTERFACE_ERROR when wlan0 does not exist
//	}
//	target, err := binder.Target(networking.FamilyOf(ip))
//	if err != nil {
//	    return err
//	}
//	conn, err := target.Dialer("tcp", 30*time.Second).DialContext(ctx, "tcp", addr)
package networking
