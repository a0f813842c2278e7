package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	workingDirectorySearchPathConstant       = "."
	environmentKeySeparatorConstant          = "."
	environmentWordSeparatorConstant         = "_"
	listSeparatorConstant                    = ","
	embeddedMergeErrorTemplateConstant       = "merge embedded configuration: %w"
	configurationReadErrorTemplateConstant   = "read configuration: %w"
	configurationDecodeErrorTemplateConstant = "decode configuration: %w"
)

// ConfigurationSource describes where configuration comes from. Later layers win:
// embedded defaults, then the first config file found, then environment variables.
type ConfigurationSource struct {
	Name              string
	Type              string
	EnvironmentPrefix string
	SearchPaths       []string
	Embedded          []byte
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader layers embedded defaults, a config file, and environment variables through viper.
type ConfigurationLoader struct {
	source ConfigurationSource
}

// NewConfigurationLoader copies source so later mutation by the caller has no effect.
func NewConfigurationLoader(source ConfigurationSource) *ConfigurationLoader {
	copied := source
	copied.SearchPaths = append([]string{}, source.SearchPaths...)
	copied.Embedded = append([]byte{}, source.Embedded...)
	return &ConfigurationLoader{source: copied}
}

// DefaultSearchPaths returns the working directory followed by the per-user configuration directory for applicationName.
func DefaultSearchPaths(applicationName string) []string {
	searchPaths := []string{workingDirectorySearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, applicationName))
	}
	return searchPaths
}

// Load decodes the layered configuration into target. An explicit configurationFilePath replaces the search.
// Durations accept Go duration strings such as "90s" or "2m".
func (loader *ConfigurationLoader) Load(configurationFilePath string, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(loader.source.Type)

	if len(loader.source.Embedded) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.source.Embedded)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedMergeErrorTemplateConstant, mergeError)
		}
	}

	if len(strings.TrimSpace(configurationFilePath)) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	} else {
		viperInstance.SetConfigName(loader.source.Name)
		for _, searchPath := range loader.source.SearchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	viperInstance.SetEnvPrefix(loader.source.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorConstant, environmentWordSeparatorConstant))
	viperInstance.AutomaticEnv()

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFound) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(listSeparatorConstant),
	))
	if decodeError := viperInstance.Unmarshal(target, decodeHook); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
