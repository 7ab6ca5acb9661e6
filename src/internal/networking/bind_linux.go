//go:build linux

package networking

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const bindByDevice = true

func deviceControl(device string) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var bindErr error
		err := c.Control(func(fd uintptr) {
			bindErr = unix.BindToDevice(int(fd), device)
		})
		if err != nil {
			return err
		}
		return bindErr
	}
}
