package synchronize

import (
	"strings"
	"time"

	"github.com/temirov/gitcare/internal/gitrepo"
)

// CommandConfiguration captures persistent settings for the sync command.
type CommandConfiguration struct {
	Remote         string        `mapstructure:"remote"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`
}

// DefaultCommandConfiguration returns baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Remote:         DefaultRemoteName,
		NetworkTimeout: gitrepo.DefaultNetworkTimeout,
	}
}

// Sanitize trims the remote name and replaces a non-positive timeout with the default.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if sanitized.NetworkTimeout <= 0 {
		sanitized.NetworkTimeout = gitrepo.DefaultNetworkTimeout
	}
	return sanitized
}
