package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	gitMetadataDirectoryNameConstant        = ".git"
	subversionMetadataDirectoryNameConstant = ".svn"
	hiddenDirectoryPrefixConstant           = "."
	skippingRepositoryMessageConstant       = "Skipping %s"

	// GitBackendName identifies repositories classified through git.
	GitBackendName = "git"
	// SubversionBackendName identifies repositories classified through svn.
	SubversionBackendName = "svn"
)

// FilesystemRepositoryLocator walks directory trees looking for version
// control metadata directories.
type FilesystemRepositoryLocator struct {
	logger *zap.Logger
}

// NewFilesystemRepositoryLocator constructs a locator logging through the
// provided logger.
func NewFilesystemRepositoryLocator(logger *zap.Logger) *FilesystemRepositoryLocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemRepositoryLocator{logger: logger}
}

// LocateRepositories walks every root top-down and returns the discovered
// working copies in visit order. Traversal never descends into a discovered
// repository, into hidden directories, into directories deeper than
// maximumDepth levels below a root, or into repositories the skipRepository
// predicate rejects. A negative maximumDepth disables the depth limit.
// Unreadable directories are skipped rather than failing the walk.
func (locator *FilesystemRepositoryLocator) LocateRepositories(roots []string, maximumDepth int, skipRepository func(repositoryPath string) bool) ([]DiscoveredRepository, error) {
	discoveredRepositories := make([]DiscoveredRepository, 0)
	seenRepositoryPaths := make(map[string]struct{})

	for _, rootPath := range roots {
		absoluteRootPath, absoluteError := filepath.Abs(rootPath)
		if absoluteError != nil {
			return nil, absoluteError
		}

		walkError := filepath.WalkDir(absoluteRootPath, func(currentPath string, directoryEntry fs.DirEntry, visitError error) error {
			if visitError != nil {
				if currentPath == absoluteRootPath {
					return visitError
				}
				return nil
			}
			if !directoryEntry.IsDir() {
				return nil
			}
			if currentPath != absoluteRootPath && strings.HasPrefix(directoryEntry.Name(), hiddenDirectoryPrefixConstant) {
				return fs.SkipDir
			}

			backendName, repositoryFound := detectRepositoryBackend(currentPath)
			if repositoryFound {
				if skipRepository != nil && skipRepository(currentPath) {
					locator.logger.Sugar().Infof(skippingRepositoryMessageConstant, currentPath)
					return fs.SkipDir
				}
				if _, alreadySeen := seenRepositoryPaths[currentPath]; !alreadySeen {
					seenRepositoryPaths[currentPath] = struct{}{}
					discoveredRepositories = append(discoveredRepositories, DiscoveredRepository{Path: currentPath, BackendName: backendName})
				}
				return fs.SkipDir
			}

			if maximumDepth >= 0 && relativeDepth(absoluteRootPath, currentPath) >= maximumDepth {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	return discoveredRepositories, nil
}

// detectRepositoryBackend inspects a directory for version control metadata.
// A .git entry wins over .svn when both are present.
func detectRepositoryBackend(directoryPath string) (string, bool) {
	if metadataEntryExists(filepath.Join(directoryPath, gitMetadataDirectoryNameConstant)) {
		return GitBackendName, true
	}
	if metadataEntryExists(filepath.Join(directoryPath, subversionMetadataDirectoryNameConstant)) {
		return SubversionBackendName, true
	}
	return "", false
}

func metadataEntryExists(metadataPath string) bool {
	_, statError := os.Stat(metadataPath)
	return statError == nil
}

func relativeDepth(rootPath string, currentPath string) int {
	if currentPath == rootPath {
		return 0
	}
	relativePath := strings.TrimPrefix(currentPath, rootPath+string(filepath.Separator))
	return strings.Count(relativePath, string(filepath.Separator)) + 1
}
