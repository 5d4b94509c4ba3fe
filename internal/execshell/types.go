package execshell

import "strings"

// CommandName identifies an external executable invoked through the executor.
type CommandName string

// Supported external commands.
const (
	// CommandGit runs the distributed version-control client.
	CommandGit CommandName = "git"
	// CommandSubversion runs the centralized version-control client.
	CommandSubversion CommandName = "svn"
)

// CommandDetails describes the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the outcome of a completed command invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput merges standard output and standard error for diagnostics.
func (result ExecutionResult) CombinedOutput() string {
	segments := make([]string, 0, 2)
	if len(strings.TrimSpace(result.StandardOutput)) > 0 {
		segments = append(segments, strings.TrimRight(result.StandardOutput, "\n"))
	}
	if len(strings.TrimSpace(result.StandardError)) > 0 {
		segments = append(segments, strings.TrimRight(result.StandardError, "\n"))
	}
	return strings.Join(segments, "\n")
}
