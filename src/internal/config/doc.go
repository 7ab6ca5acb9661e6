// Package config handles configuration file parsing and validation for njupt-wifi-login.
//
// The configuration is a TOML file read once at startup:
//
//	userid = "B21000000"
//	password = "v1$m$..."
//	isp = "CMCC"
//	check_interval = 1200
//	interface = "wlan0"
//
//	[log_policy]
//	level = "info"
//
//	[dns]
//	servers = ["8.8.8.8", "8.8.4.4"]
//	[dns.fallback]
//	"p.njupt.edu.cn" = ["10.10.244.11"]
//
//	[api]
//	enable = true
//	listen_addr = "127.0.0.1:12380"
//
// Absent sections take their defaults. A missing check_interval means 1200
// seconds; an explicit 0 disables the periodic check.
//
// Validation uses go-playground/validator with field paths reported by their
// TOML names, so errors point at the key the user has to fix.
package config
