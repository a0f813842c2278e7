package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded default configuration.
func EmbeddedDefaultConfiguration() []byte {
	return append([]byte{}, embeddedDefaultConfigurationContent...)
}
