// Package vcs models working-copy synchronization state and implements the
// backend-specific status parsers for git and svn working copies.
//
// A classification either succeeds with a Report (an ordered, deduplicated
// status set plus categorized file lists) or fails with a StatusError carrying
// the tool's captured diagnostic. Partial results are never returned: any
// command failure mid-sequence discards everything gathered so far.
package vcs
