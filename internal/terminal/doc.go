// Package terminal implements the interactive surfaces of vcwalk: blocking
// single-keystroke prompts over a raw-mode terminal, line-oriented prompts for
// pattern overrides, and the shell escape that drops the user into $SHELL
// inside a repository.
//
// Raw mode is a scoped acquisition: the previous terminal state is captured
// before switching and restored on every exit path. An interrupt observed
// during the keystroke read is reported as the zero key so callers fall
// through to their default choice instead of failing.
package terminal
