//go:build windows

package gitconfig

import (
	"os"
	"path/filepath"
)

var systemConfig = func() string {
	pd := os.Getenv("ProgramData")
	if pd == "" {
		pd = `C:\ProgramData`
	}

	return filepath.Join(pd, "Git", "config")
}()
