package vcs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcwalk/vcwalk/internal/execshell"
	"github.com/vcwalk/vcwalk/internal/vcs"
)

type scriptedSubversionExecutor struct {
	steps            []scriptedGitStep
	recordedCommands [][]string
}

func (executor *scriptedSubversionExecutor) ExecuteSubversion(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details.Arguments)
	if len(executor.steps) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	step := executor.steps[0]
	executor.steps = executor.steps[1:]
	if step.fail {
		command := execshell.ShellCommand{Name: execshell.CommandSubversion, Details: details}
		return step.result, execshell.CommandFailedError{Command: command, Result: step.result}
	}
	return step.result, nil
}

// buildSubversionStatusLine assembles one fixed-width status line: the primary
// status character at offset 0, the out-of-date marker at offset 8, and the
// path starting at offset 21.
func buildSubversionStatusLine(primaryStatus byte, outOfDate bool, filePath string) string {
	line := []byte(strings.Repeat(" ", 21))
	line[0] = primaryStatus
	if outOfDate {
		line[8] = '*'
	}
	return string(line) + filePath
}

func TestParseSubversionStatusOutput(testInstance *testing.T) {
	testCases := []struct {
		name             string
		statusLines      []string
		options          vcs.StatusOptions
		expectedStatus   vcs.StatusSet
		expectedModified []string
		expectedAdded    []string
	}{
		{
			name:           "clean_working_copy",
			statusLines:    []string{"Status against revision:   1042"},
			expectedStatus: nil,
		},
		{
			name: "modified_files",
			statusLines: []string{
				buildSubversionStatusLine('M', false, "/work/copy/main.c"),
				buildSubversionStatusLine('!', false, "/work/copy/missing.c"),
			},
			expectedStatus:   vcs.StatusSet{vcs.StatusModified},
			expectedModified: []string{"/work/copy/main.c", "/work/copy/missing.c"},
		},
		{
			name: "untracked_file",
			statusLines: []string{
				buildSubversionStatusLine('?', false, "/work/copy/new.txt"),
			},
			expectedStatus: vcs.StatusSet{vcs.StatusAdded},
			expectedAdded:  []string{"/work/copy/new.txt"},
		},
		{
			name: "untracked_suppressed_by_ignore_added",
			statusLines: []string{
				buildSubversionStatusLine('?', false, "/work/copy/new.txt"),
			},
			options:        vcs.StatusOptions{IgnoreAdded: true},
			expectedStatus: nil,
		},
		{
			name: "out_of_date_marker_deduplicates",
			statusLines: []string{
				buildSubversionStatusLine(' ', true, "/work/copy/stale.c"),
				buildSubversionStatusLine('M', true, "/work/copy/both.c"),
			},
			expectedStatus:   vcs.StatusSet{vcs.StatusNeedsPull, vcs.StatusModified},
			expectedModified: []string{"/work/copy/both.c"},
		},
		{
			name: "excluded_file_skipped",
			statusLines: []string{
				buildSubversionStatusLine('M', false, "/work/copy/skipme.c"),
			},
			options: vcs.StatusOptions{
				Excluded: func(absolutePath string) bool {
					return absolutePath == "/work/copy/skipme.c"
				},
			},
			expectedStatus: nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			statusOutput := strings.Join(testCase.statusLines, "\n") + "\n"
			report := vcs.ParseSubversionStatusOutput(statusOutput, testCase.options)
			require.Equal(testInstance, testCase.expectedStatus, report.Status)
			require.Equal(testInstance, testCase.expectedModified, report.Files.Modified)
			require.Equal(testInstance, testCase.expectedAdded, report.Files.Added)
		})
	}
}

func TestSubversionBackendStatusStaleFormat(testInstance *testing.T) {
	testInstance.Run("upgrade_disabled_yields_fixed_diagnostic", func(testInstance *testing.T) {
		executor := &scriptedSubversionExecutor{
			steps: []scriptedGitStep{
				failureStep("svn: E155036: working copy format is too old"),
			},
		}
		backend := vcs.NewSubversionBackend(executor)

		report, statusError := backend.Status(context.Background(), "/work/copy", vcs.StatusOptions{})
		require.Nil(testInstance, report)

		var diagnostic *vcs.StatusError
		require.ErrorAs(testInstance, statusError, &diagnostic)
		require.Equal(testInstance, "SVN version outdated.", diagnostic.Diagnostic)
		require.Len(testInstance, executor.recordedCommands, 1)
	})

	testInstance.Run("auto_upgrade_retries_once", func(testInstance *testing.T) {
		executor := &scriptedSubversionExecutor{
			steps: []scriptedGitStep{
				failureStep("svn: E155036: working copy format is too old"),
				successStep("Upgraded '/work/copy'\n"),
				successStep(buildSubversionStatusLine('M', false, "/work/copy/main.c") + "\n"),
			},
		}
		backend := vcs.NewSubversionBackend(executor)

		report, statusError := backend.Status(context.Background(), "/work/copy", vcs.StatusOptions{AutoUpgrade: true})
		require.NoError(testInstance, statusError)
		require.NotNil(testInstance, report)
		require.Equal(testInstance, vcs.StatusSet{vcs.StatusModified}, report.Status)

		require.Len(testInstance, executor.recordedCommands, 3)
		require.Equal(testInstance, []string{"status", "-u", "/work/copy"}, executor.recordedCommands[0])
		require.Equal(testInstance, []string{"upgrade", "/work/copy"}, executor.recordedCommands[1])
		require.Equal(testInstance, []string{"status", "-u", "/work/copy"}, executor.recordedCommands[2])
	})

	testInstance.Run("upgrade_attempted_at_most_once", func(testInstance *testing.T) {
		executor := &scriptedSubversionExecutor{
			steps: []scriptedGitStep{
				failureStep("svn: E155036: working copy format is too old"),
				successStep("Upgraded '/work/copy'\n"),
				failureStep("svn: E155036: working copy format is too old"),
			},
		}
		backend := vcs.NewSubversionBackend(executor)

		report, statusError := backend.Status(context.Background(), "/work/copy", vcs.StatusOptions{AutoUpgrade: true})
		require.Nil(testInstance, report)

		var diagnostic *vcs.StatusError
		require.ErrorAs(testInstance, statusError, &diagnostic)
		require.Equal(testInstance, "SVN version outdated.", diagnostic.Diagnostic)
		require.Len(testInstance, executor.recordedCommands, 3)
	})
}

func TestSubversionBackendGenericFailure(testInstance *testing.T) {
	executor := &scriptedSubversionExecutor{
		steps: []scriptedGitStep{
			failureStep("svn: E170013: Unable to connect to a repository"),
		},
	}
	backend := vcs.NewSubversionBackend(executor)

	report, statusError := backend.Status(context.Background(), "/work/copy", vcs.StatusOptions{AutoUpgrade: true})
	require.Nil(testInstance, report)

	var diagnostic *vcs.StatusError
	require.ErrorAs(testInstance, statusError, &diagnostic)
	require.Contains(testInstance, diagnostic.Diagnostic, "E170013")
}

func TestSubversionBackendUpdateRequiresRefresh(testInstance *testing.T) {
	executor := &scriptedSubversionExecutor{steps: []scriptedGitStep{successStep("")}}
	backend := vcs.NewSubversionBackend(executor)

	require.NoError(testInstance, backend.Update(context.Background(), "/work/copy"))
	require.Equal(testInstance, []string{"update", "/work/copy"}, executor.recordedCommands[0])
	require.True(testInstance, backend.UpdateRequiresRefresh())
}
