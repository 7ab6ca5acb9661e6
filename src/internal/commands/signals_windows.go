//go:build windows

package commands

import (
	"os"
	"syscall"
)

var (
	stopSignals  = []os.Signal{os.Interrupt, syscall.SIGTERM}
	checkSignals []os.Signal
)
