package policy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	affirmativeShortResponseConstant  = "y"
	affirmativeLongResponseConstant   = "yes"
	remediationPromptTemplateConstant = "%s. Make it executable and commit the change? [y/N] "
)

// IOConfirmationPrompter reads confirmation responses line by line from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes). End of input counts as no.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return false, readError
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}

// DecisionSource chooses whether a remediable finding is fixed.
type DecisionSource interface {
	Decide(executionContext context.Context, finding Finding) (Decision, error)
}

// DecisionFunc adapts a function to DecisionSource.
type DecisionFunc func(executionContext context.Context, finding Finding) (Decision, error)

// Decide calls the function.
func (decide DecisionFunc) Decide(executionContext context.Context, finding Finding) (Decision, error) {
	return decide(executionContext, finding)
}

// StaticDecisionSource answers every finding with the same decision.
type StaticDecisionSource struct {
	Decision Decision
}

// Decide returns the configured decision, treating an unset decision as Skip.
func (source StaticDecisionSource) Decide(context.Context, Finding) (Decision, error) {
	if source.Decision == DecisionApply {
		return DecisionApply, nil
	}
	return DecisionSkip, nil
}

// PrompterDecisionSource asks a ConfirmationPrompter about each finding.
type PrompterDecisionSource struct {
	Prompter ConfirmationPrompter
}

// Decide prompts with the finding message. A missing prompter always skips.
func (source PrompterDecisionSource) Decide(executionContext context.Context, finding Finding) (Decision, error) {
	if source.Prompter == nil {
		return DecisionSkip, nil
	}
	if contextError := executionContext.Err(); contextError != nil {
		return DecisionSkip, contextError
	}
	confirmed, confirmError := source.Prompter.Confirm(fmt.Sprintf(remediationPromptTemplateConstant, finding.Message))
	if confirmError != nil {
		return DecisionSkip, confirmError
	}
	if confirmed {
		return DecisionApply, nil
	}
	return DecisionSkip, nil
}
