// Package utils holds small helpers shared by the config and command layers.
//
// Paths from the config file (such as log_policy.file) are resolved against
// the directory holding the config file:
//
//	path := utils.ResolvePath("logs/daemon.log", "/etc/njupt-wifi-login")
//	// /etc/njupt-wifi-login/logs/daemon.log
package utils
