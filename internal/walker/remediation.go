package walker

import (
	"context"
	"strings"

	"github.com/vcwalk/vcwalk/internal/vcs"
)

const (
	remediationRepositoryHeaderConstant   = "%s Repository %s\n"
	remediationNewFileMessageConstant     = "New file: %s\n"
	remediationMenuMessageConstant        = "  [a]dd to repo\n  add to [i]gnore file\n  add to [g]lobal ignore file\n  [n]o action\n  no action on [w]hole repository\n  always s[k]ip this file\n  always skip this [r]epository\n  use [s]hell to investigate/fix\n  [q]uit\n"
	remediationAddingFileMessageConstant  = "Adding file to repository.\n"
	remediationGlobalIgnoreNoteConstant   = "Note: Using/creating a global ignore file at %s\n"
	remediationEscapedPatternNoteConstant = "(added backslash, entries starting with # would be read as comments)\n"
	remediationIgnorePromptConstant       = "What exactly to add to the ignore file? [%s] "
	remediationIgnoreWrittenConstant      = "Added ignore file entry.\n"
	remediationSkipFileMessageConstant    = "Will skip file in future runs.\n"
	remediationSkipWholeRepoConstant      = "Skipping repository.\n"
	remediationNoActionMessageConstant    = "Doing nothing...\n"
)

const (
	remediationKeyAddConstant            = 'a'
	remediationKeyIgnoreLocallyConstant  = 'i'
	remediationKeyIgnoreGloballyConstant = 'g'
	remediationKeySkipWholeRepoConstant  = 'w'
	remediationKeySkipFileConstant       = 'k'
	remediationKeySkipRepoConstant       = 'r'
	remediationKeyShellConstant          = 's'
	remediationKeyQuitConstant           = 'q'
)

// remediateAddedFiles walks the user through each untracked file of a
// repository whose backend supports staging and ignore entries. It returns
// true when the repository must be classified again, which happens after an
// ignore entry was written or the user inspected the repository in a shell.
func (classifier *Classifier) remediateAddedFiles(executionContext context.Context, repositoryPath string, backend vcs.Backend, addedFiles []string) (bool, error) {
	fileAdder, supportsAdding := backend.(vcs.FileAdder)
	ignoreWriter, supportsIgnoring := backend.(vcs.IgnoreEntryWriter)
	if !supportsAdding || !supportsIgnoring {
		return false, nil
	}

	classifier.reporter.Printf(remediationRepositoryHeaderConstant, uppercaseBackendName(backend), repositoryPath)

	for _, addedFile := range addedFiles {
		if classifier.fileExcluded(addedFile) {
			continue
		}

		classifier.reporter.Printf(remediationNewFileMessageConstant, addedFile)
		classifier.reporter.Printf(remediationMenuMessageConstant)
		pressedKey := classifier.readKey()

		switch pressedKey {
		case remediationKeyAddConstant:
			classifier.reporter.Printf(remediationAddingFileMessageConstant)
			addError := fileAdder.AddFile(executionContext, repositoryPath, addedFile)
			if addError != nil {
				classifier.logger.Error(addError.Error())
			}
		case remediationKeyIgnoreLocallyConstant, remediationKeyIgnoreGloballyConstant:
			ignoreGlobally := pressedKey == remediationKeyIgnoreGloballyConstant
			ignoreError := classifier.writeIgnoreEntry(executionContext, ignoreWriter, repositoryPath, addedFile, ignoreGlobally)
			if ignoreError != nil {
				classifier.logger.Error(ignoreError.Error())
			}
			return true, nil
		case remediationKeySkipFileConstant:
			if classifier.decisionStore != nil {
				classifier.decisionStore.SkipFile(addedFile)
			}
			classifier.reporter.Printf(remediationSkipFileMessageConstant)
		case remediationKeySkipRepoConstant:
			if classifier.decisionStore != nil {
				classifier.decisionStore.SkipRepository(repositoryPath)
			}
			classifier.reporter.Printf(skipRepositoryConfirmMessageConstant)
			return false, nil
		case remediationKeyShellConstant:
			classifier.launchShell(repositoryPath)
			return true, nil
		case remediationKeySkipWholeRepoConstant:
			classifier.reporter.Printf(remediationSkipWholeRepoConstant)
			return false, nil
		case remediationKeyQuitConstant:
			return false, ErrUserQuit
		default:
			classifier.reporter.Printf(remediationNoActionMessageConstant)
			classifier.noActionFiles[addedFile] = struct{}{}
		}
	}

	return false, nil
}

// writeIgnoreEntry proposes an ignore pattern for the file, lets the user
// override it, and appends the final entry to the local or global ignore file.
func (classifier *Classifier) writeIgnoreEntry(executionContext context.Context, ignoreWriter vcs.IgnoreEntryWriter, repositoryPath string, addedFile string, ignoreGlobally bool) error {
	if ignoreGlobally {
		classifier.reporter.Printf(remediationGlobalIgnoreNoteConstant, ignoreWriter.GlobalIgnorePath())
	}

	proposedPattern := ignoreWriter.ProposeIgnorePattern(repositoryPath, addedFile)
	if strings.HasPrefix(proposedPattern, "\\") {
		classifier.reporter.Printf(remediationEscapedPatternNoteConstant)
	}

	classifier.reporter.Printf(remediationIgnorePromptConstant, proposedPattern)
	enteredPattern := ""
	if classifier.linePrompter != nil {
		enteredLine, readError := classifier.linePrompter.ReadLine()
		if readError == nil {
			enteredPattern = strings.TrimSpace(enteredLine)
		}
	}
	if len(enteredPattern) == 0 {
		enteredPattern = proposedPattern
	}

	writeError := ignoreWriter.WriteIgnoreEntry(executionContext, repositoryPath, enteredPattern, ignoreGlobally)
	if writeError != nil {
		return writeError
	}
	classifier.reporter.Printf(remediationIgnoreWrittenConstant)
	return nil
}
