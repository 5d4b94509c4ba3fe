package walker

import "strings"

const (
	defaultSettingsFilePathConstant = "~/.config/vcwalk"
	defaultScanRootConstant         = "."
)

// CommandConfiguration captures persistent settings for the scan command.
type CommandConfiguration struct {
	Roots        []string `mapstructure:"roots"`
	Depth        int      `mapstructure:"depth"`
	AutoUpdate   bool     `mapstructure:"update"`
	AutoUpgrade  bool     `mapstructure:"upgrade"`
	IgnoreAdded  bool     `mapstructure:"ignore_added"`
	Interactive  bool     `mapstructure:"interactive"`
	LaunchShell  bool     `mapstructure:"shell"`
	Summary      bool     `mapstructure:"summary"`
	Verbose      int      `mapstructure:"verbose"`
	Color        bool     `mapstructure:"color"`
	SettingsFile string   `mapstructure:"settings_file"`
}

// DefaultCommandConfiguration returns baseline configuration values for the
// scan command. A negative depth means unlimited traversal.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:        nil,
		Depth:        -1,
		AutoUpdate:   false,
		AutoUpgrade:  false,
		IgnoreAdded:  false,
		Interactive:  false,
		LaunchShell:  false,
		Summary:      true,
		Verbose:      0,
		Color:        true,
		SettingsFile: defaultSettingsFilePathConstant,
	}
}

// DefaultConfigurationValues exposes the baseline values keyed for the
// configuration loader under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + ".roots":         defaults.Roots,
		prefix + ".depth":         defaults.Depth,
		prefix + ".update":        defaults.AutoUpdate,
		prefix + ".upgrade":       defaults.AutoUpgrade,
		prefix + ".ignore_added":  defaults.IgnoreAdded,
		prefix + ".interactive":   defaults.Interactive,
		prefix + ".shell":         defaults.LaunchShell,
		prefix + ".summary":       defaults.Summary,
		prefix + ".verbose":       defaults.Verbose,
		prefix + ".color":         defaults.Color,
		prefix + ".settings_file": defaults.SettingsFile,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Roots = sanitizeRoots(configuration.Roots)
	sanitized.SettingsFile = strings.TrimSpace(configuration.SettingsFile)
	return sanitized
}

func sanitizeRoots(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
