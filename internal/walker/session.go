package walker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vcwalk/vcwalk/internal/decision"
	"github.com/vcwalk/vcwalk/internal/vcs"
)

const (
	goodbyeMessageConstant            = "Good bye.\n"
	settingsLoadFailedMessageConstant = "Could not load the settings file: %s"
	settingsSaveFailedMessageConstant = "Could not save the settings file: %s"
)

// Session runs one complete scan: load persisted decisions, discover
// repositories, classify each one, persist decisions, and render the summary.
type Session struct {
	locator       RepositoryLocator
	classifier    *Classifier
	decisionStore *decision.Store
	backends      map[string]vcs.Backend
	reporter      Reporter
	logger        *zap.Logger
	options       Options
}

// NewSession constructs a Session with the provided collaborators.
func NewSession(locator RepositoryLocator, classifier *Classifier, decisionStore *decision.Store, backends map[string]vcs.Backend, reporter Reporter, logger *zap.Logger, options Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		locator:       locator,
		classifier:    classifier,
		decisionStore: decisionStore,
		backends:      backends,
		reporter:      reporter,
		logger:        logger,
		options:       options,
	}
}

// Run executes the scan over the configured roots. A user quit persists the
// decision store, prints a farewell, and skips the summary; it is not an
// error. The most recent classification of each repository wins when the same
// path is reached through multiple roots.
func (session *Session) Run(executionContext context.Context) error {
	if session.decisionStore != nil {
		loadError := session.decisionStore.Load()
		if loadError != nil {
			session.logger.Sugar().Warnf(settingsLoadFailedMessageConstant, loadError.Error())
		}
	}

	discoveredRepositories, locateError := session.locator.LocateRepositories(session.options.Roots, session.options.MaximumDepth, session.repositorySkipped)
	if locateError != nil {
		return locateError
	}

	records := make([]RepositoryRecord, 0, len(discoveredRepositories))
	recordIndexesByPath := make(map[string]int)
	userQuit := false

	for _, discoveredRepository := range discoveredRepositories {
		backend, backendKnown := session.backends[discoveredRepository.BackendName]
		if !backendKnown {
			continue
		}
		if session.repositorySkipped(discoveredRepository.Path) {
			continue
		}

		record, classifyError := session.classifier.Classify(executionContext, discoveredRepository.Path, backend)
		if existingIndex, alreadyRecorded := recordIndexesByPath[record.Path]; alreadyRecorded {
			records[existingIndex] = record
		} else {
			recordIndexesByPath[record.Path] = len(records)
			records = append(records, record)
		}

		if classifyError != nil {
			if errors.Is(classifyError, ErrUserQuit) {
				userQuit = true
				break
			}
			return classifyError
		}
	}

	if session.decisionStore != nil {
		saveError := session.decisionStore.Save()
		if saveError != nil {
			session.logger.Sugar().Warnf(settingsSaveFailedMessageConstant, saveError.Error())
		}
	}

	if userQuit {
		session.reporter.Printf(goodbyeMessageConstant)
		return nil
	}

	if session.options.ShowSummary {
		RenderSummary(session.reporter, records)
	}
	return nil
}

func (session *Session) repositorySkipped(repositoryPath string) bool {
	return session.decisionStore != nil && session.decisionStore.RepositorySkipped(repositoryPath)
}
