// Package walker ties the scan together: it discovers working copies under
// the requested roots, classifies each one through its backend, drives the
// interactive remediation workflow, and renders the final summary.
//
// Execution is strictly sequential: one repository is classified fully,
// including prompts and spawned shells, before the next one is visited. The
// decision store is owned by the session and only mutated between prompts, so
// no locking is involved anywhere.
package walker
