package walker

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vcwalk/vcwalk/internal/decision"
	"github.com/vcwalk/vcwalk/internal/vcs"
)

const (
	checkingRepositoryMessageConstant      = "Checking repository: %s"
	repositoryCheckFailedMessageConstant   = "Could not check this repository: %s"
	failurePromptMessageConstant           = "What to do now? [n]o action for now, always skip this [r]epository, [q]uit, use [s]hell to investigate/fix\n"
	failureNoActionMessageConstant         = "No action.\n"
	skipRepositoryConfirmMessageConstant   = "Will skip repository in future runs.\n"
	needsPushMessageConstant               = "Needs Push."
	needsPullMessageConstant               = "Needs Pull."
	needsUpdateMessageConstant             = "Needs Update."
	needsMergeMessageConstant              = "Needs Merge."
	modifiedFilesHeaderMessageConstant     = "Locally modified files:"
	addedFilesHeaderMessageConstant        = "New local files:"
	findingFileEntryMessageConstant        = "  - %s"
	updatingRepositoryMessageConstant      = "Updating repository: %s"
	repositoryUpdateFailedMessageConstant  = "Could not update this repository: %s"
	shellOnFindingPromptMessageConstant    = "Launch a shell to investigate/fix this? [y]es [n]o [q]uit\n"
	keypressFailureDefaultsMessageConstant = "Could not read a keystroke, assuming no action."
)

const (
	failureKeySkipRepositoryConstant = 'r'
	failureKeyQuitConstant           = 'q'
	failureKeyShellConstant          = 's'
	shellKeyYesLowerConstant         = 'y'
	shellKeyYesUpperConstant         = 'Y'
)

// Classifier derives the status of individual repositories and walks the user
// through remediation when running interactively.
type Classifier struct {
	decisionStore *decision.Store
	keyPrompter   KeyPrompter
	linePrompter  LinePrompter
	shellLauncher ShellLauncher
	reporter      Reporter
	logger        *zap.Logger
	options       Options

	// noActionFiles remembers files the user declined to act on. The set
	// lives for a single run and is never persisted.
	noActionFiles map[string]struct{}
}

// NewClassifier constructs a Classifier with the provided collaborators.
func NewClassifier(decisionStore *decision.Store, keyPrompter KeyPrompter, linePrompter LinePrompter, shellLauncher ShellLauncher, reporter Reporter, logger *zap.Logger, options Options) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		decisionStore: decisionStore,
		keyPrompter:   keyPrompter,
		linePrompter:  linePrompter,
		shellLauncher: shellLauncher,
		reporter:      reporter,
		logger:        logger,
		options:       options,
		noActionFiles: make(map[string]struct{}),
	}
}

// Classify determines the state of one repository and, when interactive,
// drives remediation until the repository needs no further attention. The
// returned record always reflects the most recent classification. ErrUserQuit
// is returned when the user quits at any prompt.
func (classifier *Classifier) Classify(executionContext context.Context, repositoryPath string, backend vcs.Backend) (RepositoryRecord, error) {
	record := RepositoryRecord{Path: repositoryPath, BackendName: backend.Name()}
	updateAllowed := true

	for {
		classifier.logger.Sugar().Infof(checkingRepositoryMessageConstant, repositoryPath)

		report, statusError := backend.Status(executionContext, repositoryPath, classifier.statusOptions())
		if statusError != nil {
			record.Report = nil
			record.Diagnostic = statusError.Error()
			retry, promptError := classifier.handleClassificationFailure(repositoryPath, record.Diagnostic)
			if promptError != nil {
				return record, promptError
			}
			if retry {
				continue
			}
			return record, nil
		}

		record.Report = report
		record.Diagnostic = ""
		classifier.logFindings(repositoryPath, backend, report)

		if classifier.options.Interactive && len(report.Files.Added) > 0 {
			repeat, remediationError := classifier.remediateAddedFiles(executionContext, repositoryPath, backend, report.Files.Added)
			if remediationError != nil {
				return record, remediationError
			}
			if repeat {
				continue
			}
		}

		if classifier.options.AutoUpdate && updateAllowed && report.Status.Contains(vcs.StatusNeedsPull) {
			classifier.logger.Sugar().Infof(updatingRepositoryMessageConstant, repositoryPath)
			updateError := backend.Update(executionContext, repositoryPath)
			if updateError != nil {
				classifier.logger.Sugar().Errorf(repositoryUpdateFailedMessageConstant, updateError.Error())
			}
			if backend.UpdateRequiresRefresh() {
				updateAllowed = false
				continue
			}
		}

		if classifier.options.LaunchShell && !report.Status.Clean() {
			retry, promptError := classifier.offerInvestigationShell(repositoryPath)
			if promptError != nil {
				return record, promptError
			}
			if retry {
				continue
			}
		}

		return record, nil
	}
}

func (classifier *Classifier) statusOptions() vcs.StatusOptions {
	return vcs.StatusOptions{
		IgnoreAdded: classifier.options.IgnoreAdded,
		AutoUpgrade: classifier.options.AutoUpgrade,
		Excluded:    classifier.fileExcluded,
	}
}

func (classifier *Classifier) fileExcluded(filePath string) bool {
	if _, declined := classifier.noActionFiles[filePath]; declined {
		return true
	}
	return classifier.decisionStore != nil && classifier.decisionStore.FileSkipped(filePath)
}

// handleClassificationFailure reports the diagnostic and, when interactive,
// asks the user how to proceed. It returns true when the repository should be
// classified again.
func (classifier *Classifier) handleClassificationFailure(repositoryPath string, diagnostic string) (bool, error) {
	classifier.logger.Sugar().Warnf(repositoryCheckFailedMessageConstant, repositoryPath)
	classifier.logger.Error(diagnostic)

	if !classifier.options.Interactive {
		return false, nil
	}

	classifier.reporter.Printf(failurePromptMessageConstant)
	pressedKey := classifier.readKey()

	switch pressedKey {
	case failureKeySkipRepositoryConstant:
		classifier.reporter.Printf(skipRepositoryConfirmMessageConstant)
		if classifier.decisionStore != nil {
			classifier.decisionStore.SkipRepository(repositoryPath)
		}
		return false, nil
	case failureKeyQuitConstant:
		return false, ErrUserQuit
	case failureKeyShellConstant:
		classifier.launchShell(repositoryPath)
		return true, nil
	default:
		classifier.reporter.Printf(failureNoActionMessageConstant)
		return false, nil
	}
}

// offerInvestigationShell asks whether to open a shell in a repository that
// still has findings. It returns true when the repository should be
// classified again after the shell exits.
func (classifier *Classifier) offerInvestigationShell(repositoryPath string) (bool, error) {
	classifier.reporter.Printf(shellOnFindingPromptMessageConstant)
	pressedKey := classifier.readKey()

	switch pressedKey {
	case shellKeyYesLowerConstant, shellKeyYesUpperConstant:
		classifier.launchShell(repositoryPath)
		return true, nil
	case failureKeyQuitConstant:
		return false, ErrUserQuit
	default:
		return false, nil
	}
}

// logFindings prints the repository path once before its first finding and
// then one line per finding. Push is reported before pull, pull before
// divergence, divergence before modified files, modified before added files.
func (classifier *Classifier) logFindings(repositoryPath string, backend vcs.Backend, report *vcs.Report) {
	sugaredLogger := classifier.logger.Sugar()
	pathLogged := false
	logPathOnce := func() {
		if !pathLogged {
			pathLogged = true
			sugaredLogger.Info(repositoryPath)
		}
	}

	if report.Status.Contains(vcs.StatusNeedsPush) {
		logPathOnce()
		sugaredLogger.Info(needsPushMessageConstant)
	}
	if report.Status.Contains(vcs.StatusNeedsPull) {
		logPathOnce()
		if backend.UpdateRequiresRefresh() {
			sugaredLogger.Info(needsUpdateMessageConstant)
		} else {
			sugaredLogger.Info(needsPullMessageConstant)
		}
	}
	if report.Status.Contains(vcs.StatusDiverged) {
		logPathOnce()
		sugaredLogger.Info(needsMergeMessageConstant)
	}
	if report.Status.Contains(vcs.StatusModified) {
		logPathOnce()
		sugaredLogger.Info(modifiedFilesHeaderMessageConstant)
		for _, modifiedFile := range report.Files.Modified {
			sugaredLogger.Infof(findingFileEntryMessageConstant, modifiedFile)
		}
	}
	if report.Status.Contains(vcs.StatusAdded) {
		logPathOnce()
		sugaredLogger.Info(addedFilesHeaderMessageConstant)
		for _, addedFile := range report.Files.Added {
			sugaredLogger.Infof(findingFileEntryMessageConstant, addedFile)
		}
	}
}

func (classifier *Classifier) readKey() byte {
	if classifier.keyPrompter == nil {
		return 0
	}
	pressedKey, readError := classifier.keyPrompter.ReadKey()
	if readError != nil {
		classifier.logger.Warn(keypressFailureDefaultsMessageConstant)
		return 0
	}
	return pressedKey
}

func (classifier *Classifier) launchShell(repositoryPath string) {
	if classifier.shellLauncher == nil {
		return
	}
	launchError := classifier.shellLauncher.Launch(repositoryPath)
	if launchError != nil {
		classifier.logger.Error(launchError.Error())
	}
}

func uppercaseBackendName(backend vcs.Backend) string {
	return strings.ToUpper(backend.Name())
}
