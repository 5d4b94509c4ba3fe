package vcs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/vcwalk/vcwalk/internal/execshell"
)

const (
	gitBackendNameConstant             = "git"
	gitDirectoryFlagConstant           = "-C"
	gitRemoteSubcommandConstant        = "remote"
	gitRemoteUpdateArgumentConstant    = "update"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitLocalHeadReferenceConstant      = "@"
	gitUpstreamReferenceConstant       = "@{u}"
	gitMergeBaseSubcommandConstant     = "merge-base"
	gitStatusSubcommandConstant        = "status"
	gitStatusPorcelainFlagConstant     = "--porcelain"
	gitPullSubcommandConstant          = "pull"
	gitAddSubcommandConstant           = "add"
	gitConfigSubcommandConstant        = "config"
	gitConfigGlobalFlagConstant        = "--global"
	gitExcludesFileSettingNameConstant = "core.excludesfile"
	gitLocalIgnoreFileNameConstant     = ".gitignore"
	gitStagedStatusCharactersConstant  = "MARCD"
	gitUntrackedLinePrefixConstant     = "??"
	gitPorcelainPathOffsetConstant     = 3
	ignoreCommentIntroducerConstant    = "#"
	ignoreCommentEscapePrefixConstant  = "\\"
)

// GitBackend classifies git working copies by shelling out to the git client.
type GitBackend struct {
	executor         GitExecutor
	ignoreFileWriter *IgnoreFileWriter
	globalIgnorePath string
}

// NewGitBackend constructs a git backend using the provided executor and
// ignore file writer. globalIgnorePath locates the user-wide ignore file.
func NewGitBackend(executor GitExecutor, ignoreFileWriter *IgnoreFileWriter, globalIgnorePath string) *GitBackend {
	return &GitBackend{executor: executor, ignoreFileWriter: ignoreFileWriter, globalIgnorePath: globalIgnorePath}
}

// Name returns the backend identifier.
func (backend *GitBackend) Name() string {
	return gitBackendNameConstant
}

// Status refreshes remote-tracking state, compares local, upstream, and merge
// base revisions, and parses the porcelain working-tree status. Any command
// failure aborts immediately and discards partial results.
func (backend *GitBackend) Status(executionContext context.Context, repositoryPath string, options StatusOptions) (*Report, error) {
	_, remoteUpdateError := backend.run(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteUpdateArgumentConstant)
	if remoteUpdateError != nil {
		return nil, commandDiagnostic(remoteUpdateError)
	}

	localResult, localError := backend.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitLocalHeadReferenceConstant)
	if localError != nil {
		return nil, commandDiagnostic(localError)
	}

	upstreamResult, upstreamError := backend.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitUpstreamReferenceConstant)
	if upstreamError != nil {
		return nil, commandDiagnostic(upstreamError)
	}

	baseResult, baseError := backend.run(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, gitLocalHeadReferenceConstant, gitUpstreamReferenceConstant)
	if baseError != nil {
		return nil, commandDiagnostic(baseError)
	}

	statusResult, statusError := backend.run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	if statusError != nil {
		return nil, commandDiagnostic(statusError)
	}

	report := Report{
		Status: CompareRevisionIdentifiers(localResult.StandardOutput, upstreamResult.StandardOutput, baseResult.StandardOutput),
	}

	workingTreeReport := ParseGitStatusOutput(repositoryPath, statusResult.StandardOutput, options)
	for _, code := range workingTreeReport.Status {
		report.Status.Add(code)
	}
	report.Files = workingTreeReport.Files

	return &report, nil
}

// Update pulls the upstream branch into the working copy.
func (backend *GitBackend) Update(executionContext context.Context, repositoryPath string) error {
	_, pullError := backend.run(executionContext, repositoryPath, gitPullSubcommandConstant)
	return pullError
}

// UpdateRequiresRefresh reports that a git pull does not force re-classification:
// the caller already holds the pre-update report and the pull only moves the
// local head onto the upstream.
func (backend *GitBackend) UpdateRequiresRefresh() bool {
	return false
}

// AddFile stages a single file in the working copy.
func (backend *GitBackend) AddFile(executionContext context.Context, repositoryPath string, filePath string) error {
	_, addError := backend.run(executionContext, repositoryPath, gitAddSubcommandConstant, filePath)
	return addError
}

// ProposeIgnorePattern strips the repository prefix from the file path and
// escapes a leading comment introducer so the pattern stays a literal rule.
func (backend *GitBackend) ProposeIgnorePattern(repositoryPath string, filePath string) string {
	pattern := filePath
	if strings.HasPrefix(pattern, repositoryPath) {
		pattern = pattern[len(repositoryPath):]
	}
	if strings.HasPrefix(pattern, ignoreCommentIntroducerConstant) {
		pattern = ignoreCommentEscapePrefixConstant + pattern
	}
	return pattern
}

// WriteIgnoreEntry appends the pattern to the repository-local or global
// ignore file and, for the global case, configures git to use that file.
func (backend *GitBackend) WriteIgnoreEntry(executionContext context.Context, repositoryPath string, pattern string, globally bool) error {
	ignoreFilePath := filepath.Join(repositoryPath, gitLocalIgnoreFileNameConstant)
	if globally {
		ignoreFilePath = backend.globalIgnorePath
	}

	if appendError := backend.ignoreFileWriter.AppendEntry(ignoreFilePath, pattern); appendError != nil {
		return appendError
	}

	if globally {
		configDetails := execshell.CommandDetails{
			Arguments: []string{gitConfigSubcommandConstant, gitConfigGlobalFlagConstant, gitExcludesFileSettingNameConstant, ignoreFilePath},
		}
		if _, configError := backend.executor.ExecuteGit(executionContext, configDetails); configError != nil {
			return configError
		}
	}

	return nil
}

// GlobalIgnorePath returns the configured user-wide ignore file path.
func (backend *GitBackend) GlobalIgnorePath() string {
	return backend.globalIgnorePath
}

func (backend *GitBackend) run(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandArguments := append([]string{gitDirectoryFlagConstant, repositoryPath}, arguments...)
	return backend.executor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: commandArguments})
}

// CompareRevisionIdentifiers derives the push/pull/diverged state from the
// local head, the upstream head, and their merge base.
func CompareRevisionIdentifiers(localRevision string, upstreamRevision string, baseRevision string) StatusSet {
	local := strings.TrimSpace(localRevision)
	upstream := strings.TrimSpace(upstreamRevision)
	base := strings.TrimSpace(baseRevision)

	var statusSet StatusSet
	switch {
	case local == upstream:
	case local == base:
		statusSet.Add(StatusNeedsPull)
	case upstream == base:
		statusSet.Add(StatusNeedsPush)
	default:
		statusSet.Add(StatusDiverged)
	}
	return statusSet
}

// ParseGitStatusOutput classifies porcelain status lines into modified and
// added file lists. The derived report is a pure function of the output text,
// the exclusion predicate, and the ignore-added option.
func ParseGitStatusOutput(repositoryPath string, statusOutput string, options StatusOptions) Report {
	var report Report

	for _, statusLine := range strings.Split(statusOutput, "\n") {
		if len(statusLine) < gitPorcelainPathOffsetConstant {
			continue
		}

		absoluteFilePath := filepath.Join(repositoryPath, statusLine[gitPorcelainPathOffsetConstant:])
		if options.isExcluded(absoluteFilePath) {
			continue
		}

		if strings.ContainsRune(gitStagedStatusCharactersConstant, rune(statusLine[1])) {
			report.Status.Add(StatusModified)
			report.Files.Modified = append(report.Files.Modified, absoluteFilePath)
		}

		if strings.HasPrefix(statusLine, gitUntrackedLinePrefixConstant) && !options.IgnoreAdded {
			report.Status.Add(StatusAdded)
			report.Files.Added = append(report.Files.Added, absoluteFilePath)
		}
	}

	return report
}

// commandDiagnostic converts an executor error into a StatusError carrying the
// captured tool output when available.
func commandDiagnostic(executionError error) *StatusError {
	commandFailure := execshell.CommandFailedError{}
	if errors.As(executionError, &commandFailure) {
		return &StatusError{Diagnostic: commandFailure.Result.CombinedOutput()}
	}
	return &StatusError{Diagnostic: executionError.Error()}
}
