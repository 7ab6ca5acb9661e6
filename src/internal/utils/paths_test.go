package utils

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{"absolute", "/var/log/login.log", "/etc/njupt", "/var/log/login.log"},
		{"empty stays empty", "", "/etc/njupt", ""},
		{"relative", "logs/login.log", "/etc/njupt", "/etc/njupt/logs/login.log"},
		{"dot", "./login.log", "/etc/njupt", "/etc/njupt/login.log"},
		{"parent", "../login.log", "/etc/njupt", "/etc/login.log"},
		{"empty base", "login.log", "", "login.log"},
		{"cleaned", "a//b/../c/login.log", "/etc//njupt", "/etc/njupt/a/c/login.log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.path, tt.baseDir))
		})
	}
}

func TestResolvePath_PlatformSeparators(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "base", "dir")
	got := ResolvePath(filepath.Join("sub", "file.log"), base)
	assert.Equal(t, filepath.Join(base, "sub", "file.log"), got)
}
