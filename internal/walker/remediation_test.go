package walker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcwalk/vcwalk/internal/vcs"
	"github.com/vcwalk/vcwalk/internal/walker"
)

const testAddedFilePathConstant = "/repos/sample/notes.txt"

func addedFileReport(addedFiles ...string) *vcs.Report {
	return &vcs.Report{
		Status: vcs.StatusSet{vcs.StatusAdded},
		Files:  vcs.FileSets{Added: addedFiles},
	}
}

func newRemediableBackend(statusSteps ...statusStep) *remediableBackend {
	return &remediableBackend{
		fakeBackend: fakeBackend{
			backendName: walker.GitBackendName,
			statusSteps: statusSteps,
		},
	}
}

func TestRemediationAddStagesFile(testInstance *testing.T) {
	backend := newRemediableBackend(statusStep{report: addedFileReport(testAddedFilePathConstant)})
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'a'}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.Equal(testInstance, []string{testAddedFilePathConstant}, backend.addedFiles)
	require.Equal(testInstance, 1, backend.statusCallCount)
	require.Contains(testInstance, harness.outputBuffer.String(), "GIT Repository "+testRepositoryPathConstant)
	require.Contains(testInstance, harness.outputBuffer.String(), "Adding file to repository.")
}

func TestRemediationIgnoreWritesEntryAndReclassifies(testInstance *testing.T) {
	testCases := []struct {
		name             string
		key              byte
		enteredLine      string
		expectedPattern  string
		expectedGlobally bool
	}{
		{
			name:            "local_ignore_accepts_proposal",
			key:             'i',
			expectedPattern: "/notes.txt",
		},
		{
			name:            "local_ignore_honors_override",
			key:             'i',
			enteredLine:     "*.txt",
			expectedPattern: "*.txt",
		},
		{
			name:             "global_ignore_targets_global_file",
			key:              'g',
			expectedPattern:  "/notes.txt",
			expectedGlobally: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			backend := newRemediableBackend(
				statusStep{report: addedFileReport(testAddedFilePathConstant)},
				statusStep{report: &vcs.Report{}},
			)
			harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{testCase.key}, []string{testCase.enteredLine})

			record, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

			require.NoError(testInstance, classifyError)
			require.Equal(testInstance, 2, backend.statusCallCount)
			require.Equal(testInstance, []writtenIgnoreEntry{{pattern: testCase.expectedPattern, globally: testCase.expectedGlobally}}, backend.ignoreEntries)
			require.True(testInstance, record.Clean())
			require.Contains(testInstance, harness.outputBuffer.String(), "Added ignore file entry.")
		})
	}
}

func TestRemediationIgnoreStopsProcessingRemainingFiles(testInstance *testing.T) {
	firstAddedFile := "/repos/sample/a.txt"
	secondAddedFile := "/repos/sample/b.log"
	backend := newRemediableBackend(
		statusStep{report: addedFileReport(firstAddedFile, secondAddedFile)},
		statusStep{report: &vcs.Report{}},
	)
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'i', 'n'}, []string{""})

	record, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.Equal(testInstance, []writtenIgnoreEntry{{pattern: "/a.txt"}}, backend.ignoreEntries)
	require.Equal(testInstance, 2, backend.statusCallCount)
	require.True(testInstance, record.Clean())
	require.Contains(testInstance, harness.outputBuffer.String(), "New file: "+firstAddedFile)
	require.NotContains(testInstance, harness.outputBuffer.String(), "New file: "+secondAddedFile)
	require.Len(testInstance, harness.keyPrompter.keys, 1)
}

func TestRemediationSkipFilePersistsDecision(testInstance *testing.T) {
	backend := newRemediableBackend(statusStep{report: addedFileReport(testAddedFilePathConstant)})
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'k'}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.True(testInstance, harness.decisionStore.FileSkipped(testAddedFilePathConstant))
	require.Equal(testInstance, 1, backend.statusCallCount)
}

func TestRemediationSkipRepositoryPersistsDecision(testInstance *testing.T) {
	backend := newRemediableBackend(statusStep{report: addedFileReport(testAddedFilePathConstant)})
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'r'}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.True(testInstance, harness.decisionStore.RepositorySkipped(testRepositoryPathConstant))
	require.Equal(testInstance, 1, backend.statusCallCount)
}

func TestRemediationNoActionExcludesFileForRun(testInstance *testing.T) {
	backend := newRemediableBackend(statusStep{report: addedFileReport(testAddedFilePathConstant)})
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{0}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.Contains(testInstance, harness.outputBuffer.String(), "Doing nothing...")
	require.Len(testInstance, backend.capturedOptions, 1)
	require.True(testInstance, backend.capturedOptions[0].Excluded(testAddedFilePathConstant))
	require.False(testInstance, harness.decisionStore.FileSkipped(testAddedFilePathConstant))
}

func TestRemediationShellTriggersReclassification(testInstance *testing.T) {
	backend := newRemediableBackend(
		statusStep{report: addedFileReport(testAddedFilePathConstant)},
		statusStep{report: &vcs.Report{}},
	)
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'s'}, nil)

	record, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.Equal(testInstance, []string{testRepositoryPathConstant}, harness.shellLauncher.launchedDirectories)
	require.Equal(testInstance, 2, backend.statusCallCount)
	require.True(testInstance, record.Clean())
}

func TestRemediationQuitAbortsClassification(testInstance *testing.T) {
	backend := newRemediableBackend(statusStep{report: addedFileReport(testAddedFilePathConstant)})
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'q'}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.ErrorIs(testInstance, classifyError, walker.ErrUserQuit)
}

func TestRemediationSkippedWithoutCapableBackend(testInstance *testing.T) {
	backend := &fakeBackend{
		backendName: walker.SubversionBackendName,
		statusSteps: []statusStep{{report: addedFileReport(testAddedFilePathConstant)}},
	}
	harness := newClassifierHarness(testInstance, walker.Options{Interactive: true}, []byte{'q'}, nil)

	_, classifyError := harness.classifier.Classify(context.Background(), testRepositoryPathConstant, backend)

	require.NoError(testInstance, classifyError)
	require.Equal(testInstance, 1, backend.statusCallCount)
	require.Empty(testInstance, harness.outputBuffer.String())
}
