// Package decision persists the user's permanent skip choices between runs.
//
// The store is owned by the running session: it is loaded once at startup,
// mutated only through explicit user choices during remediation, and written
// back exactly once at shutdown or on an early quit.
package decision
