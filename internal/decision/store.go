package decision

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	settingsFilePermissionsConstant      = os.FileMode(0o644)
	settingsDirectoryPermissionsConstant = os.FileMode(0o755)
)

// settingsDocument is the on-disk shape of the store: two named arrays.
type settingsDocument struct {
	SkipFiles        []string `yaml:"skip_files"`
	SkipRepositories []string `yaml:"skip_repositories"`
}

// Store holds the persisted skip decisions for files and repositories.
type Store struct {
	fileSystem       afero.Fs
	settingsFilePath string
	skipFiles        map[string]struct{}
	skipRepositories map[string]struct{}
}

// NewStore constructs an empty store persisting to the provided settings path.
// An empty path disables persistence entirely.
func NewStore(fileSystem afero.Fs, settingsFilePath string) *Store {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Store{
		fileSystem:       fileSystem,
		settingsFilePath: settingsFilePath,
		skipFiles:        map[string]struct{}{},
		skipRepositories: map[string]struct{}{},
	}
}

// Load reads the settings file when present. A missing file is not an error;
// the store simply starts empty.
func (store *Store) Load() error {
	if len(store.settingsFilePath) == 0 {
		return nil
	}

	settingsExist, existsError := afero.Exists(store.fileSystem, store.settingsFilePath)
	if existsError != nil {
		return existsError
	}
	if !settingsExist {
		return nil
	}

	settingsContent, readError := afero.ReadFile(store.fileSystem, store.settingsFilePath)
	if readError != nil {
		return readError
	}

	var document settingsDocument
	if unmarshalError := yaml.Unmarshal(settingsContent, &document); unmarshalError != nil {
		return unmarshalError
	}

	for _, filePath := range document.SkipFiles {
		store.skipFiles[filePath] = struct{}{}
	}
	for _, repositoryPath := range document.SkipRepositories {
		store.skipRepositories[repositoryPath] = struct{}{}
	}

	return nil
}

// Save writes the current decisions back to the settings file, creating parent
// directories as needed. A store without a settings path saves nothing.
func (store *Store) Save() error {
	if len(store.settingsFilePath) == 0 {
		return nil
	}

	document := settingsDocument{
		SkipFiles:        sortedKeys(store.skipFiles),
		SkipRepositories: sortedKeys(store.skipRepositories),
	}

	settingsContent, marshalError := yaml.Marshal(document)
	if marshalError != nil {
		return marshalError
	}

	settingsDirectory := filepath.Dir(store.settingsFilePath)
	if mkdirError := store.fileSystem.MkdirAll(settingsDirectory, settingsDirectoryPermissionsConstant); mkdirError != nil {
		return mkdirError
	}

	return afero.WriteFile(store.fileSystem, store.settingsFilePath, settingsContent, settingsFilePermissionsConstant)
}

// SkipFile records a file path to exclude from all future detection.
func (store *Store) SkipFile(filePath string) {
	store.skipFiles[filePath] = struct{}{}
}

// SkipRepository records a repository path to exclude from all future runs.
func (store *Store) SkipRepository(repositoryPath string) {
	store.skipRepositories[repositoryPath] = struct{}{}
}

// FileSkipped reports whether the file was permanently skipped.
func (store *Store) FileSkipped(filePath string) bool {
	_, skipped := store.skipFiles[filePath]
	return skipped
}

// RepositorySkipped reports whether the repository was permanently skipped.
func (store *Store) RepositorySkipped(repositoryPath string) bool {
	_, skipped := store.skipRepositories[repositoryPath]
	return skipped
}

func sortedKeys(pathSet map[string]struct{}) []string {
	keys := make([]string, 0, len(pathSet))
	for key := range pathSet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
