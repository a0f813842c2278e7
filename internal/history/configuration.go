package history

import "strings"

const (
	// DefaultLogLimit is the number of commits log prints when no limit is configured.
	DefaultLogLimit = 20
	// OutputFormatText renders history as console lines.
	OutputFormatText = "text"
	// OutputFormatYAML renders history as a YAML document.
	OutputFormatYAML = "yaml"
)

// CommandConfiguration captures persistent settings for the log command.
type CommandConfiguration struct {
	Limit int `mapstructure:"limit"`
}

// DefaultCommandConfiguration returns baseline configuration values for the log command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Limit: DefaultLogLimit}
}

// Sanitize replaces a negative limit with the default. Zero means unlimited.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.Limit < 0 {
		sanitized.Limit = DefaultLogLimit
	}
	return sanitized
}

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), OutputFormatYAML) {
		return OutputFormatYAML
	}
	return OutputFormatText
}
