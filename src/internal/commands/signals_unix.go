//go:build !windows

package commands

import (
	"os"
	"syscall"
)

var (
	stopSignals  = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	checkSignals = []os.Signal{syscall.SIGUSR1}
)
