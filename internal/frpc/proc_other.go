//go:build !windows

package frpc

import "os/exec"

func hideWindow(*exec.Cmd) {}
