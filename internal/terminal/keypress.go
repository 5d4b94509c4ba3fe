package terminal

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// KeypressReader reads one keystroke at a time from an input stream.
//
// When the stream is a terminal the read happens in raw mode so a single key
// suffices; otherwise (pipes, tests) a buffered line is consumed and its first
// byte returned, which keeps scripted input usable.
type KeypressReader struct {
	input          *os.File
	bufferedReader *bufio.Reader
}

// NewKeypressReader constructs a reader over the provided input file.
func NewKeypressReader(input *os.File) *KeypressReader {
	return &KeypressReader{input: input, bufferedReader: bufio.NewReader(input)}
}

// ReadKey blocks until a single keystroke is available and returns it.
// Interrupts and end-of-input are reported as the zero key.
func (reader *KeypressReader) ReadKey() (byte, error) {
	fileDescriptor := int(reader.input.Fd())
	if !term.IsTerminal(fileDescriptor) {
		return reader.readKeyFromBuffer()
	}

	previousState, rawModeError := term.MakeRaw(fileDescriptor)
	if rawModeError != nil {
		return 0, rawModeError
	}
	defer term.Restore(fileDescriptor, previousState)

	keyBuffer := make([]byte, 1)
	bytesRead, readError := reader.input.Read(keyBuffer)
	if readError != nil || bytesRead == 0 {
		// Interrupted or closed input falls through to the default choice.
		return 0, nil
	}
	return keyBuffer[0], nil
}

func (reader *KeypressReader) readKeyFromBuffer() (byte, error) {
	inputLine, readError := reader.bufferedReader.ReadString('\n')
	if len(inputLine) == 0 {
		if readError == io.EOF || readError == nil {
			return 0, nil
		}
		return 0, readError
	}
	return inputLine[0], nil
}
