package launcher

import "syscall"

// detachedProcess starts the child without inheriting the parent's console.
const detachedProcess = 0x00000008

// sysProcAttr detaches the wrapper from the agent's process group and
// console so it survives the agent's death.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
		HideWindow:    true,
	}
}

// workingDir is the wrapper's working directory.
func workingDir() string {
	return `C:\`
}
