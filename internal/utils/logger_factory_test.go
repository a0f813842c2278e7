package utils_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/utils"
)

const (
	testLoggerFactoryCaseTemplateConstant = "level_%s_format_%s"
	testLogMessageConstant                = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		level             utils.LogLevel
		format            utils.LogFormat
		expectStructured  bool
		expectInfoWritten bool
	}{
		{level: utils.LogLevelDebug, format: utils.LogFormatStructured, expectStructured: true, expectInfoWritten: true},
		{level: utils.LogLevelInfo, format: utils.LogFormatStructured, expectStructured: true, expectInfoWritten: true},
		{level: utils.LogLevelInfo, format: utils.LogFormatConsole, expectInfoWritten: true},
		{level: utils.LogLevelError, format: utils.LogFormatConsole},
	}

	for _, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactoryCaseTemplateConstant, testCase.level, testCase.format), func(subtest *testing.T) {
			output := &bytes.Buffer{}
			logger, creationError := utils.NewLoggerFactory(output).CreateLogger(testCase.level, testCase.format)
			require.NoError(subtest, creationError)

			logger.Info(testLogMessageConstant)
			require.NoError(subtest, logger.Sync())

			if !testCase.expectInfoWritten {
				require.Empty(subtest, output.String())
				return
			}
			require.Contains(subtest, output.String(), testLogMessageConstant)

			var decoded map[string]any
			decodeError := json.Unmarshal(bytes.TrimSpace(output.Bytes()), &decoded)
			if testCase.expectStructured {
				require.NoError(subtest, decodeError)
				require.Equal(subtest, testLogMessageConstant, decoded["msg"])
				require.Equal(subtest, "info", decoded["level"])
			} else {
				require.Error(subtest, decodeError)
				require.Contains(subtest, output.String(), "INFO")
			}
		})
	}
}

func TestLoggerFactoryRejectsUnknownValues(testInstance *testing.T) {
	factory := utils.NewLoggerFactory(&bytes.Buffer{})

	_, levelError := factory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatConsole)
	require.Error(testInstance, levelError)

	_, formatError := factory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("xml"))
	require.Error(testInstance, formatError)
}

func TestParseLogSettings(testInstance *testing.T) {
	testCases := []struct {
		name           string
		levelInput     string
		formatInput    string
		expectedLevel  utils.LogLevel
		expectedFormat utils.LogFormat
		expectError    bool
	}{
		{name: "canonical", levelInput: "warn", formatInput: "structured", expectedLevel: utils.LogLevelWarn, expectedFormat: utils.LogFormatStructured},
		{name: "mixed_case_and_spaces", levelInput: " DEBUG ", formatInput: "Console", expectedLevel: utils.LogLevelDebug, expectedFormat: utils.LogFormatConsole},
		{name: "unknown_level", levelInput: "loud", formatInput: "console", expectError: true},
		{name: "unknown_format", levelInput: "info", formatInput: "yaml", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			level, levelError := utils.ParseLogLevel(testCase.levelInput)
			format, formatError := utils.ParseLogFormat(testCase.formatInput)
			if testCase.expectError {
				require.True(subtest, levelError != nil || formatError != nil)
				return
			}
			require.NoError(subtest, levelError)
			require.NoError(subtest, formatError)
			require.Equal(subtest, testCase.expectedLevel, level)
			require.Equal(subtest, testCase.expectedFormat, format)
			require.False(subtest, strings.ContainsAny(string(level), " "))
		})
	}
}
