// pkg/platform/utils.go
package platform

import (
	"os/exec"
)

// lookPath returns the resolved path of cmd, or "" when it is not on PATH
func lookPath(cmd string) string {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return ""
	}
	return path
}
