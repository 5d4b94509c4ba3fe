package walker_test

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vcwalk/vcwalk/internal/walker"
)

func newTestCommandBuilder() *walker.CommandBuilder {
	return &walker.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		Locator:        &staticRepositoryLocator{},
		KeyPrompter:    &scriptedKeyPrompter{},
		LinePrompter:   &scriptedLinePrompter{},
		ShellLauncher:  &recordingShellLauncher{},
		FileSystem:     afero.NewMemMapFs(),
	}
}

func TestCommandBuilderBuildRegistersFlags(testInstance *testing.T) {
	command, buildError := newTestCommandBuilder().Build()
	require.NoError(testInstance, buildError)

	expectedFlagNames := []string{
		"update",
		"upgrade",
		"ignore-added",
		"verbose",
		"no-color",
		"no-summary",
		"interactive",
		"depth",
		"shell",
		"settings-file",
	}
	for _, flagName := range expectedFlagNames {
		require.NotNil(testInstance, command.Flags().Lookup(flagName), flagName)
	}

	expectedShorthands := map[string]string{
		"update":        "u",
		"ignore-added":  "n",
		"verbose":       "v",
		"interactive":   "i",
		"depth":         "d",
		"shell":         "s",
		"settings-file": "f",
	}
	for flagName, shorthand := range expectedShorthands {
		require.Equal(testInstance, shorthand, command.Flags().Lookup(flagName).Shorthand, flagName)
	}
}

func TestCommandRejectsNegativeDepth(testInstance *testing.T) {
	command, buildError := newTestCommandBuilder().Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--depth", "-2"})

	executeError := command.Execute()
	require.Error(testInstance, executeError)
	require.Contains(testInstance, executeError.Error(), "must not be negative")
}

func TestCommandRunsWithEmptyScan(testInstance *testing.T) {
	command, buildError := newTestCommandBuilder().Build()
	require.NoError(testInstance, buildError)
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{testInstance.TempDir()})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, summaryLegendLineConstant, outputBuffer.String())
}

func TestCommandConfigurationDefaults(testInstance *testing.T) {
	defaults := walker.DefaultCommandConfiguration()

	require.Equal(testInstance, -1, defaults.Depth)
	require.True(testInstance, defaults.Summary)
	require.True(testInstance, defaults.Color)
	require.Equal(testInstance, "~/.config/vcwalk", defaults.SettingsFile)

	defaultValues := walker.DefaultConfigurationValues("tools.scan")
	require.Equal(testInstance, -1, defaultValues["tools.scan.depth"])
	require.Equal(testInstance, true, defaultValues["tools.scan.summary"])
	require.Equal(testInstance, "~/.config/vcwalk", defaultValues["tools.scan.settings_file"])
}
