package terminal

import (
	"bufio"
	"io"
	"strings"
)

// LineReader collects a full line of user input, used when a single keystroke
// is not enough (ignore-pattern overrides).
type LineReader struct {
	bufferedReader *bufio.Reader
}

// NewLineReader constructs a line reader over the provided input.
func NewLineReader(input io.Reader) *LineReader {
	return &LineReader{bufferedReader: bufio.NewReader(input)}
}

// ReadLine blocks for one line of input and returns it without surrounding
// whitespace. End-of-input yields an empty line.
func (reader *LineReader) ReadLine() (string, error) {
	inputLine, readError := reader.bufferedReader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return "", readError
	}
	return strings.TrimSpace(inputLine), nil
}
