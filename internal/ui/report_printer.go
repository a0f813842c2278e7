package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	successPrefixConstant      = "✓"
	advisoryPrefixConstant     = "!"
	failurePrefixConstant      = "✗"
	successColorConstant       = "2"
	advisoryColorConstant      = "3"
	failureColorConstant       = "1"
	reportLineTemplateConstant = "%s %s\n"
	yamlIndentationConstant    = 2
)

// Status classifies a rendered line.
type Status string

// Supported line statuses.
const (
	StatusSuccess  Status = "success"
	StatusAdvisory Status = "advisory"
	StatusFailure  Status = "failure"
)

// Line is one rendered outcome.
type Line struct {
	Status Status
	Text   string
}

// ReportPrinter writes status lines with lipgloss-styled prefixes.
// Styling degrades to plain text when the writer is not a color-capable terminal.
type ReportPrinter struct {
	writer   io.Writer
	prefixes map[Status]string
}

// NewReportPrinter constructs a printer bound to writer.
func NewReportPrinter(writer io.Writer) *ReportPrinter {
	renderer := lipgloss.NewRenderer(writer)
	return &ReportPrinter{
		writer: writer,
		prefixes: map[Status]string{
			StatusSuccess:  renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)).Bold(true).Render(successPrefixConstant),
			StatusAdvisory: renderer.NewStyle().Foreground(lipgloss.Color(advisoryColorConstant)).Bold(true).Render(advisoryPrefixConstant),
			StatusFailure:  renderer.NewStyle().Foreground(lipgloss.Color(failureColorConstant)).Bold(true).Render(failurePrefixConstant),
		},
	}
}

// PrintLine writes one status line.
func (printer *ReportPrinter) PrintLine(line Line) error {
	prefix, known := printer.prefixes[line.Status]
	if !known {
		prefix = printer.prefixes[StatusAdvisory]
	}
	_, writeError := fmt.Fprintf(printer.writer, reportLineTemplateConstant, prefix, line.Text)
	return writeError
}

// PrintLines writes lines in order, stopping at the first write failure.
func (printer *ReportPrinter) PrintLines(lines []Line) error {
	for _, line := range lines {
		if printError := printer.PrintLine(line); printError != nil {
			return printError
		}
	}
	return nil
}

// WriteYAML encodes value as a YAML document.
func WriteYAML(writer io.Writer, value any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
