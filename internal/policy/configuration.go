package policy

import "strings"

const (
	// OutputFormatText renders findings as prefixed console lines.
	OutputFormatText = "text"
	// OutputFormatYAML renders the report as a YAML document.
	OutputFormatYAML = "yaml"
)

// CommandConfiguration captures persistent settings for the check command.
// Unset lists select the built-in defaults; an explicitly empty list disables that rule's inputs.
type CommandConfiguration struct {
	AssumeYes       bool     `mapstructure:"assume_yes"`
	Format          string   `mapstructure:"format"`
	RequiredFiles   []string `mapstructure:"required_files"`
	DisallowedTypes []string `mapstructure:"disallowed_types"`
}

// DefaultCommandConfiguration returns baseline configuration values for the check command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		AssumeYes: false,
		Format:    OutputFormatText,
	}
}

// Sanitize normalizes the output format, falling back to text for unknown values, and trims list entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RequiredFiles = trimEntries(configuration.RequiredFiles)
	sanitized.DisallowedTypes = trimEntries(configuration.DisallowedTypes)
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	if sanitized.Format != OutputFormatYAML {
		sanitized.Format = OutputFormatText
	}
	return sanitized
}

func trimEntries(entries []string) []string {
	if entries == nil {
		return nil
	}
	trimmed := make([]string, 0, len(entries))
	for _, entry := range entries {
		if value := strings.TrimSpace(entry); len(value) > 0 {
			trimmed = append(trimmed, value)
		}
	}
	return trimmed
}
