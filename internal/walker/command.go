package walker

import (
	"errors"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vcwalk/vcwalk/internal/decision"
	"github.com/vcwalk/vcwalk/internal/execshell"
	"github.com/vcwalk/vcwalk/internal/terminal"
	"github.com/vcwalk/vcwalk/internal/utils"
	pathutils "github.com/vcwalk/vcwalk/internal/utils/path"
	"github.com/vcwalk/vcwalk/internal/vcs"
)

const (
	commandUseConstant              = "scan [path...]"
	commandShortDescriptionConstant = "Recursively find git and svn repositories and check them against upstream"
	commandLongDescriptionConstant  = "Scan walks the given paths, classifies every git and svn working copy against its upstream, and optionally walks you through adding, ignoring, or skipping new files."

	flagUpdateNameConstant              = "update"
	flagUpdateShorthandConstant         = "u"
	flagUpdateDescriptionConstant       = "Perform a git pull or svn update if a repository is found to be outdated."
	flagUpgradeNameConstant             = "upgrade"
	flagUpgradeDescriptionConstant      = "Perform a svn upgrade if necessary (outdated SVN data format version in repository)."
	flagIgnoreAddedNameConstant         = "ignore-added"
	flagIgnoreAddedShorthandConstant    = "n"
	flagIgnoreAddedDescriptionConstant  = "Ignore files added in the local file system."
	flagVerboseNameConstant             = "verbose"
	flagVerboseShorthandConstant        = "v"
	flagVerboseDescriptionConstant      = "Output all messages about single repositories. Use twice for debug output."
	flagNoColorNameConstant             = "no-color"
	flagNoColorDescriptionConstant      = "Use no color in logging output."
	flagNoSummaryNameConstant           = "no-summary"
	flagNoSummaryDescriptionConstant    = "Don't summarize the results."
	flagInteractiveNameConstant         = "interactive"
	flagInteractiveShorthandConstant    = "i"
	flagInteractiveDescriptionConstant  = "Ask for adding/ignoring new files."
	flagDepthNameConstant               = "depth"
	flagDepthShorthandConstant          = "d"
	flagDepthDescriptionConstant        = "Maximum directory depth."
	flagShellNameConstant               = "shell"
	flagShellShorthandConstant          = "s"
	flagShellDescriptionConstant        = "Launch a shell in every directory that has modified/added files (implies -v)."
	flagSettingsFileNameConstant        = "settings-file"
	flagSettingsFileShorthandConstant   = "f"
	flagSettingsFileDescriptionConstant = "An alternate settings file (default: ~/.config/vcwalk)."

	globalIgnoreFilePathConstant      = "~/.gitignore"
	negativeDepthErrorMessageConstant = "maximum directory depth must not be negative"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the scan cobra command with configurable
// dependencies. Every field may stay nil; production defaults are resolved
// during command execution.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Locator               RepositoryLocator
	CommandRunner         execshell.CommandRunner
	KeyPrompter           KeyPrompter
	LinePrompter          LinePrompter
	ShellLauncher         ShellLauncher
	FileSystem            afero.Fs
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the cobra command for the repository scan workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().BoolP(flagUpdateNameConstant, flagUpdateShorthandConstant, defaults.AutoUpdate, flagUpdateDescriptionConstant)
	command.Flags().Bool(flagUpgradeNameConstant, defaults.AutoUpgrade, flagUpgradeDescriptionConstant)
	command.Flags().BoolP(flagIgnoreAddedNameConstant, flagIgnoreAddedShorthandConstant, defaults.IgnoreAdded, flagIgnoreAddedDescriptionConstant)
	command.Flags().CountP(flagVerboseNameConstant, flagVerboseShorthandConstant, flagVerboseDescriptionConstant)
	command.Flags().Bool(flagNoColorNameConstant, !defaults.Color, flagNoColorDescriptionConstant)
	command.Flags().Bool(flagNoSummaryNameConstant, !defaults.Summary, flagNoSummaryDescriptionConstant)
	command.Flags().BoolP(flagInteractiveNameConstant, flagInteractiveShorthandConstant, defaults.Interactive, flagInteractiveDescriptionConstant)
	command.Flags().IntP(flagDepthNameConstant, flagDepthShorthandConstant, defaults.Depth, flagDepthDescriptionConstant)
	command.Flags().BoolP(flagShellNameConstant, flagShellShorthandConstant, defaults.LaunchShell, flagShellDescriptionConstant)
	command.Flags().StringP(flagSettingsFileNameConstant, flagSettingsFileShorthandConstant, defaults.SettingsFile, flagSettingsFileDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	options, verbosity, colorized, optionsError := builder.resolveOptions(command, arguments, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger, loggerError := builder.resolveLogger(verbosity, colorized)
	if loggerError != nil {
		return loggerError
	}
	defer func() { _ = logger.Sync() }()

	session, sessionError := builder.assembleSession(command, logger, options)
	if sessionError != nil {
		return sessionError
	}

	return session.Run(command.Context())
}

// resolveOptions merges configuration values with command line flags. A flag
// explicitly set on the command line wins over the configuration file.
func (builder *CommandBuilder) resolveOptions(command *cobra.Command, arguments []string, configuration CommandConfiguration) (Options, int, bool, error) {
	flags := command.Flags()

	autoUpdate := resolveBoolFlag(flags.Changed(flagUpdateNameConstant), flags, flagUpdateNameConstant, configuration.AutoUpdate)
	autoUpgrade := resolveBoolFlag(flags.Changed(flagUpgradeNameConstant), flags, flagUpgradeNameConstant, configuration.AutoUpgrade)
	ignoreAdded := resolveBoolFlag(flags.Changed(flagIgnoreAddedNameConstant), flags, flagIgnoreAddedNameConstant, configuration.IgnoreAdded)
	interactive := resolveBoolFlag(flags.Changed(flagInteractiveNameConstant), flags, flagInteractiveNameConstant, configuration.Interactive)
	launchShell := resolveBoolFlag(flags.Changed(flagShellNameConstant), flags, flagShellNameConstant, configuration.LaunchShell)

	showSummary := configuration.Summary
	if flags.Changed(flagNoSummaryNameConstant) {
		noSummary, _ := flags.GetBool(flagNoSummaryNameConstant)
		showSummary = !noSummary
	}

	colorized := configuration.Color
	if flags.Changed(flagNoColorNameConstant) {
		noColor, _ := flags.GetBool(flagNoColorNameConstant)
		colorized = !noColor
	}

	maximumDepth := configuration.Depth
	if flags.Changed(flagDepthNameConstant) {
		maximumDepth, _ = flags.GetInt(flagDepthNameConstant)
		if maximumDepth < 0 {
			return Options{}, 0, false, errors.New(negativeDepthErrorMessageConstant)
		}
	}

	settingsFilePath := configuration.SettingsFile
	if flags.Changed(flagSettingsFileNameConstant) {
		settingsFilePath, _ = flags.GetString(flagSettingsFileNameConstant)
	}

	verbosity := configuration.Verbose
	if flags.Changed(flagVerboseNameConstant) {
		verbosity, _ = flags.GetCount(flagVerboseNameConstant)
	}
	if launchShell && verbosity == 0 {
		verbosity = 1
	}

	roots := append([]string{}, arguments...)
	if len(roots) == 0 {
		roots = append(roots, configuration.Roots...)
	}
	if len(roots) == 0 {
		roots = []string{defaultScanRootConstant}
	}

	options := Options{
		Roots:            roots,
		MaximumDepth:     maximumDepth,
		AutoUpdate:       autoUpdate,
		AutoUpgrade:      autoUpgrade,
		IgnoreAdded:      ignoreAdded,
		Interactive:      interactive,
		LaunchShell:      launchShell,
		ShowSummary:      showSummary,
		SettingsFilePath: settingsFilePath,
	}
	return options, verbosity, colorized, nil
}

func (builder *CommandBuilder) resolveLogger(verbosity int, colorized bool) (*zap.Logger, error) {
	if builder.LoggerProvider != nil {
		providedLogger := builder.LoggerProvider()
		if providedLogger != nil {
			return providedLogger, nil
		}
	}

	logLevel := utils.LogLevelWarn
	switch {
	case verbosity >= 2:
		logLevel = utils.LogLevelDebug
	case verbosity == 1:
		logLevel = utils.LogLevelInfo
	}
	return utils.NewLoggerFactory().CreateColoredLogger(logLevel, utils.LogFormatConsole, colorized)
}

func (builder *CommandBuilder) assembleSession(command *cobra.Command, logger *zap.Logger, options Options) (*Session, error) {
	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	options.SettingsFilePath = homeExpander.Expand(options.SettingsFilePath)

	fileSystem := builder.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	executor, executorError := execshell.NewShellExecutor(logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}

	decisionStore := decision.NewStore(fileSystem, options.SettingsFilePath)
	backends := map[string]vcs.Backend{
		GitBackendName:        vcs.NewGitBackend(executor, vcs.NewIgnoreFileWriter(fileSystem), homeExpander.Expand(globalIgnoreFilePathConstant)),
		SubversionBackendName: vcs.NewSubversionBackend(executor),
	}

	keyPrompter := builder.KeyPrompter
	if keyPrompter == nil {
		keyPrompter = terminal.NewKeypressReader(os.Stdin)
	}
	linePrompter := builder.LinePrompter
	if linePrompter == nil {
		linePrompter = terminal.NewLineReader(os.Stdin)
	}
	shellLauncher := builder.ShellLauncher
	if shellLauncher == nil {
		shellLauncher = terminal.NewInteractiveShellLauncher()
	}

	locator := builder.Locator
	if locator == nil {
		locator = NewFilesystemRepositoryLocator(logger)
	}

	reporter := NewWriterReporter(command.OutOrStdout())
	classifier := NewClassifier(decisionStore, keyPrompter, linePrompter, shellLauncher, reporter, logger, options)
	return NewSession(locator, classifier, decisionStore, backends, reporter, logger, options), nil
}

func resolveBoolFlag(changed bool, flags *pflag.FlagSet, flagName string, configuredValue bool) bool {
	if !changed {
		return configuredValue
	}
	flagValue, _ := flags.GetBool(flagName)
	return flagValue
}
