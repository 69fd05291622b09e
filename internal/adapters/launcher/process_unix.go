//go:build !windows

package launcher

import "syscall"

// sysProcAttr detaches the wrapper into its own session so it is not part of
// the agent's process group and survives the agent's death.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}

// workingDir is the wrapper's working directory.
func workingDir() string {
	return "/"
}
