//go:build !linux

package networking

import "syscall"

const bindByDevice = false

func deviceControl(string) func(network, address string, c syscall.RawConn) error {
	return nil
}
