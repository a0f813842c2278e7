package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/ui"
)

func TestReportPrinterRendersPlainPrefixesForNonTerminalWriters(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	printer := ui.NewReportPrinter(outputBuffer)

	require.NoError(testInstance, printer.PrintLines([]ui.Line{
		{Status: ui.StatusSuccess, Text: "synchronized main with origin"},
		{Status: ui.StatusAdvisory, Text: "no remote configured"},
		{Status: ui.StatusFailure, Text: "not a git repository"},
		{Status: ui.Status("unknown"), Text: "fallback"},
	}))

	require.Equal(testInstance, "✓ synchronized main with origin\n! no remote configured\n✗ not a git repository\n! fallback\n", outputBuffer.String())
}

func TestWriteYAMLUsesTwoSpaceIndentation(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	document := struct {
		Root     string   `yaml:"root"`
		Findings []string `yaml:"findings"`
	}{Root: "/work", Findings: []string{"a"}}

	require.NoError(testInstance, ui.WriteYAML(outputBuffer, document))
	require.Equal(testInstance, "root: /work\nfindings:\n  - a\n", outputBuffer.String())
}
