package terminal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcwalk/vcwalk/internal/terminal"
)

func TestLineReaderReadLine(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedLines []string
	}{
		{
			name:          "single_line",
			input:         "/custom-pattern\n",
			expectedLines: []string{"/custom-pattern"},
		},
		{
			name:          "whitespace_trimmed",
			input:         "  padded value  \n",
			expectedLines: []string{"padded value"},
		},
		{
			name:          "empty_input_yields_empty_line",
			input:         "",
			expectedLines: []string{""},
		},
		{
			name:          "multiple_lines_read_in_order",
			input:         "first\nsecond\n",
			expectedLines: []string{"first", "second"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lineReader := terminal.NewLineReader(strings.NewReader(testCase.input))
			for _, expectedLine := range testCase.expectedLines {
				actualLine, readError := lineReader.ReadLine()
				require.NoError(testInstance, readError)
				require.Equal(testInstance, expectedLine, actualLine)
			}
		})
	}
}
