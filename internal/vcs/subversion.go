package vcs

import (
	"context"
	"strings"

	"github.com/vcwalk/vcwalk/internal/execshell"
)

const (
	subversionBackendNameConstant           = "svn"
	subversionStatusSubcommandConstant      = "status"
	subversionShowUpdatesFlagConstant       = "-u"
	subversionUpdateSubcommandConstant      = "update"
	subversionUpgradeSubcommandConstant     = "upgrade"
	subversionStaleFormatMarkerConstant     = "E155036"
	subversionStaleFormatDiagnosticConstant = "SVN version outdated."
	subversionModifiedCharactersConstant    = "ACDMR!"
	subversionUntrackedCharacterConstant    = '?'
	subversionOutOfDateCharacterConstant    = '*'
	subversionPrimaryStatusOffsetConstant   = 0
	subversionOutOfDateColumnOffsetConstant = 8
	subversionPathColumnOffsetConstant      = 21
)

// SubversionBackend classifies svn working copies via a single recursive
// status-against-server query.
type SubversionBackend struct {
	executor SubversionExecutor
}

// NewSubversionBackend constructs an svn backend using the provided executor.
func NewSubversionBackend(executor SubversionExecutor) *SubversionBackend {
	return &SubversionBackend{executor: executor}
}

// Name returns the backend identifier.
func (backend *SubversionBackend) Name() string {
	return subversionBackendNameConstant
}

// Status runs "svn status -u" and parses its fixed-column output. A failure
// whose diagnostic carries the stale working-copy format marker triggers a
// one-time upgrade-and-retry when the auto-upgrade option is enabled and
// otherwise surfaces as the fixed outdated-format diagnostic.
func (backend *SubversionBackend) Status(executionContext context.Context, repositoryPath string, options StatusOptions) (*Report, error) {
	upgradeAttempted := false
	for {
		statusResult, statusError := backend.run(executionContext, subversionStatusSubcommandConstant, subversionShowUpdatesFlagConstant, repositoryPath)
		if statusError == nil {
			report := ParseSubversionStatusOutput(statusResult.StandardOutput, options)
			return &report, nil
		}

		diagnostic := commandDiagnostic(statusError)
		if !strings.Contains(diagnostic.Diagnostic, subversionStaleFormatMarkerConstant) {
			return nil, diagnostic
		}

		if options.AutoUpgrade && !upgradeAttempted {
			upgradeAttempted = true
			if _, upgradeError := backend.run(executionContext, subversionUpgradeSubcommandConstant, repositoryPath); upgradeError == nil {
				continue
			}
		}

		return nil, &StatusError{Diagnostic: subversionStaleFormatDiagnosticConstant}
	}
}

// Update runs "svn update" against the working copy.
func (backend *SubversionBackend) Update(executionContext context.Context, repositoryPath string) error {
	_, updateError := backend.run(executionContext, subversionUpdateSubcommandConstant, repositoryPath)
	return updateError
}

// UpdateRequiresRefresh reports that a successful svn update invalidates the
// previous report: the caller must re-classify to observe the merged state.
func (backend *SubversionBackend) UpdateRequiresRefresh() bool {
	return true
}

func (backend *SubversionBackend) run(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return backend.executor.ExecuteSubversion(executionContext, execshell.CommandDetails{Arguments: arguments})
}

// ParseSubversionStatusOutput classifies fixed-width "svn status -u" lines.
// Column offsets match the svn client's output format exactly: the primary
// status character sits at offset 0, the out-of-date marker at offset 8, and
// the path starts at offset 21.
func ParseSubversionStatusOutput(statusOutput string, options StatusOptions) Report {
	var report Report

	for _, statusLine := range strings.Split(statusOutput, "\n") {
		if len(statusLine) == 0 {
			continue
		}

		primaryStatus := rune(statusLine[subversionPrimaryStatusOffsetConstant])
		filePath := ""
		if len(statusLine) > subversionPathColumnOffsetConstant {
			filePath = statusLine[subversionPathColumnOffsetConstant:]
		}

		if strings.ContainsRune(subversionModifiedCharactersConstant, primaryStatus) {
			if len(filePath) > 0 && !options.isExcluded(filePath) {
				report.Status.Add(StatusModified)
				report.Files.Modified = append(report.Files.Modified, filePath)
			}
		} else if primaryStatus == subversionUntrackedCharacterConstant && !options.IgnoreAdded {
			if len(filePath) > 0 && !options.isExcluded(filePath) {
				report.Status.Add(StatusAdded)
				report.Files.Added = append(report.Files.Added, filePath)
			}
		}

		if len(statusLine) > subversionOutOfDateColumnOffsetConstant && statusLine[subversionOutOfDateColumnOffsetConstant] == subversionOutOfDateCharacterConstant {
			report.Status.Add(StatusNeedsPull)
		}
	}

	return report
}
