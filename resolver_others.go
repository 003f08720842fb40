//go:build !windows

package gitconfig

var systemConfig = "/etc/gitconfig"
