package walker_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcwalk/vcwalk/internal/walker"
)

func captureStandardOutput(testInstance *testing.T, action func()) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStdout := os.Stdout
	os.Stdout = pipeWriter
	defer func() {
		os.Stdout = originalStdout
	}()

	action()

	require.NoError(testInstance, pipeWriter.Close())
	capturedBytes, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())
	return string(capturedBytes)
}

func TestWriterReporterWritesToProvidedWriter(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := walker.NewWriterReporter(outputBuffer)

	reporter.Printf("checked %d repositories\n", 3)

	require.Equal(testInstance, "checked 3 repositories\n", outputBuffer.String())
}

func TestWriterReporterSinkSelection(testInstance *testing.T) {
	testCases := []struct {
		name             string
		sink             io.Writer
		expectedOnStdout string
	}{
		{
			name:             "nil_falls_back_to_standard_output",
			sink:             nil,
			expectedOnStdout: "hello\n",
		},
		{
			name: "discard_sink_is_honored",
			sink: io.Discard,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			capturedOutput := captureStandardOutput(testInstance, func() {
				reporter := walker.NewWriterReporter(testCase.sink)
				reporter.Printf("hello\n")
			})

			require.Equal(testInstance, testCase.expectedOnStdout, capturedOutput)
		})
	}
}
