// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions vcwalk uses to run
// git and svn in a testable manner. Command failures carry the captured output
// so callers can surface tool diagnostics without re-running anything.
package execshell
