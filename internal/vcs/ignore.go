package vcs

import (
	"os"

	"github.com/spf13/afero"
)

const (
	ignoreFileHeaderConstant      = "# Fresh ignore file created by vcwalk. Feel free to change as needed."
	ignoreFilePermissionsConstant = os.FileMode(0o644)
	newlineConstant               = "\n"
)

// IgnoreFileWriter appends ignore patterns to plain-text ignore files.
// Writes are strictly append-only: existing content is never truncated or
// reordered. A file created by the writer starts with a boilerplate comment.
type IgnoreFileWriter struct {
	fileSystem afero.Fs
}

// NewIgnoreFileWriter constructs a writer over the provided filesystem.
func NewIgnoreFileWriter(fileSystem afero.Fs) *IgnoreFileWriter {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &IgnoreFileWriter{fileSystem: fileSystem}
}

// AppendEntry appends one pattern line to the ignore file, creating the file
// with the boilerplate header when it does not exist yet.
func (writer *IgnoreFileWriter) AppendEntry(ignoreFilePath string, pattern string) error {
	fileExists, existsError := afero.Exists(writer.fileSystem, ignoreFilePath)
	if existsError != nil {
		return existsError
	}

	ignoreFile, openError := writer.fileSystem.OpenFile(ignoreFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, ignoreFilePermissionsConstant)
	if openError != nil {
		return openError
	}
	defer ignoreFile.Close()

	entry := pattern + newlineConstant
	if !fileExists {
		entry = ignoreFileHeaderConstant + newlineConstant + entry
	}

	_, writeError := ignoreFile.WriteString(entry)
	return writeError
}
