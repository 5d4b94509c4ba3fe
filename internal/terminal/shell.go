package terminal

import (
	"os"
	"os/exec"
)

const (
	shellEnvironmentVariableConstant = "SHELL"
	fallbackShellPathConstant        = "/bin/bash"
)

// InteractiveShellLauncher spawns the user's shell inside a directory so the
// user can investigate or fix a repository by hand. The launch blocks until
// the shell exits.
type InteractiveShellLauncher struct {
	shellPath string
}

// NewInteractiveShellLauncher resolves the shell from $SHELL with a fixed
// fallback.
func NewInteractiveShellLauncher() *InteractiveShellLauncher {
	shellPath := os.Getenv(shellEnvironmentVariableConstant)
	if len(shellPath) == 0 {
		shellPath = fallbackShellPathConstant
	}
	return &InteractiveShellLauncher{shellPath: shellPath}
}

// Launch starts the shell in the working directory with inherited stdio.
func (launcher *InteractiveShellLauncher) Launch(workingDirectory string) error {
	shellCommand := exec.Command(launcher.shellPath)
	shellCommand.Dir = workingDirectory
	shellCommand.Stdin = os.Stdin
	shellCommand.Stdout = os.Stdout
	shellCommand.Stderr = os.Stderr
	return shellCommand.Run()
}
