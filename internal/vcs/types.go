package vcs

import (
	"context"

	"github.com/vcwalk/vcwalk/internal/execshell"
)

// StatusCode identifies one normalized working-copy condition.
type StatusCode string

// Normalized status codes shared by every backend.
const (
	StatusNeedsPush StatusCode = "needs-push"
	StatusNeedsPull StatusCode = "needs-pull"
	StatusDiverged  StatusCode = "diverged"
	StatusModified  StatusCode = "modified"
	StatusAdded     StatusCode = "added"
)

// StatusSet is an ordered, deduplicated collection of status codes.
// An empty set means the working copy is clean.
type StatusSet []StatusCode

// Add appends the code unless it is already present.
func (statusSet *StatusSet) Add(code StatusCode) {
	if statusSet.Contains(code) {
		return
	}
	*statusSet = append(*statusSet, code)
}

// Contains reports whether the code is a member of the set.
func (statusSet StatusSet) Contains(code StatusCode) bool {
	for _, member := range statusSet {
		if member == code {
			return true
		}
	}
	return false
}

// Clean reports whether no condition was detected.
func (statusSet StatusSet) Clean() bool {
	return len(statusSet) == 0
}

// FileSets lists the absolute file paths gathered during one classification.
type FileSets struct {
	Modified []string
	Added    []string
}

// Report is the successful outcome of a single classification attempt.
type Report struct {
	Status StatusSet
	Files  FileSets
}

// StatusError carries the diagnostic of a failed classification. The report
// accompanying a StatusError is always nil.
type StatusError struct {
	Diagnostic string
}

// Error returns the captured diagnostic text.
func (failure *StatusError) Error() string {
	return failure.Diagnostic
}

// StatusOptions adjusts how a backend derives status from tool output.
type StatusOptions struct {
	// IgnoreAdded suppresses the added status and file list entirely.
	IgnoreAdded bool
	// AutoUpgrade permits the centralized backend a one-time working-copy
	// format upgrade before retrying a failed status query.
	AutoUpgrade bool
	// Excluded filters individual absolute file paths out of detection.
	Excluded func(absolutePath string) bool
}

func (options StatusOptions) isExcluded(absolutePath string) bool {
	if options.Excluded == nil {
		return false
	}
	return options.Excluded(absolutePath)
}

// Backend classifies and updates working copies of one version-control family.
type Backend interface {
	// Name returns the short backend identifier used in logs and records.
	Name() string
	// Status derives the normalized report for the working copy at the path.
	Status(executionContext context.Context, repositoryPath string, options StatusOptions) (*Report, error)
	// Update brings the working copy up to date with its upstream.
	Update(executionContext context.Context, repositoryPath string) error
	// UpdateRequiresRefresh reports whether a successful Update invalidates
	// the previously derived report and a re-classification is needed.
	UpdateRequiresRefresh() bool
}

// FileAdder is implemented by backends that can stage a new file.
type FileAdder interface {
	AddFile(executionContext context.Context, repositoryPath string, filePath string) error
}

// IgnoreEntryWriter is implemented by backends that maintain ignore files.
type IgnoreEntryWriter interface {
	// ProposeIgnorePattern computes the default ignore pattern for a file.
	ProposeIgnorePattern(repositoryPath string, filePath string) string
	// WriteIgnoreEntry appends the pattern to the local or global ignore file.
	WriteIgnoreEntry(executionContext context.Context, repositoryPath string, pattern string, globally bool) error
	// GlobalIgnorePath returns the path of the global ignore file.
	GlobalIgnorePath() string
}

// GitExecutor exposes the subset of shell execution used by the git backend.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SubversionExecutor exposes the subset of shell execution used by the svn backend.
type SubversionExecutor interface {
	ExecuteSubversion(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
