package walker

import (
	"errors"

	"github.com/vcwalk/vcwalk/internal/vcs"
)

// ErrUserQuit signals that the user chose to quit at an interactive prompt.
// The session persists the decision store and terminates cleanly.
var ErrUserQuit = errors.New("user requested quit")

// KeyPrompter obtains a single keystroke response.
type KeyPrompter interface {
	ReadKey() (byte, error)
}

// LinePrompter obtains a full line of user input.
type LinePrompter interface {
	ReadLine() (string, error)
}

// ShellLauncher drops the user into an interactive shell in a directory and
// blocks until the shell exits.
type ShellLauncher interface {
	Launch(workingDirectory string) error
}

// RepositoryLocator finds working-copy roots beneath the scan roots.
type RepositoryLocator interface {
	LocateRepositories(roots []string, maximumDepth int, skipRepository func(repositoryPath string) bool) ([]DiscoveredRepository, error)
}

// DiscoveredRepository identifies one working copy found during traversal.
type DiscoveredRepository struct {
	Path        string
	BackendName string
}

// RepositoryRecord couples a repository with its latest classification
// outcome. Re-classification replaces the previous record; no history is kept.
type RepositoryRecord struct {
	Path        string
	BackendName string
	// Report is nil exactly when classification failed.
	Report     *vcs.Report
	Diagnostic string
}

// Failed reports whether the classification could not be completed.
func (record RepositoryRecord) Failed() bool {
	return record.Report == nil
}

// Clean reports whether the repository was classified and found untouched.
func (record RepositoryRecord) Clean() bool {
	return record.Report != nil && record.Report.Status.Clean()
}

// Options carries the per-run behavior switches of a scan session.
type Options struct {
	Roots            []string
	MaximumDepth     int
	AutoUpdate       bool
	AutoUpgrade      bool
	IgnoreAdded      bool
	Interactive      bool
	LaunchShell      bool
	ShowSummary      bool
	SettingsFilePath string
}
