package pathutils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/vcwalk/vcwalk/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/walker"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		providerError error
		expectedPath  string
	}{
		{
			name:          "tilde_prefix_expanded",
			candidatePath: "~/.config/vcwalk",
			expectedPath:  testHomeDirectoryConstant + "/.config/vcwalk",
		},
		{
			name:          "bare_tilde_expanded",
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          "absolute_path_untouched",
			candidatePath: "/etc/vcwalk",
			expectedPath:  "/etc/vcwalk",
		},
		{
			name:          "empty_path_untouched",
			candidatePath: "",
			expectedPath:  "",
		},
		{
			name:          "provider_failure_leaves_path",
			candidatePath: "~/.config/vcwalk",
			providerError: errors.New("no home"),
			expectedPath:  "~/.config/vcwalk",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return testHomeDirectoryConstant, testCase.providerError
			})
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}
