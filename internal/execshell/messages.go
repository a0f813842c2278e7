package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitHeadReferenceConstant           = "HEAD"
	gitConfigSubcommandNameConstant    = "config"
	gitRemoteSubcommandNameConstant    = "remote"
	gitRevListSubcommandNameConstant   = "rev-list"
	gitLogSubcommandNameConstant       = "log"
	gitStatusSubcommandNameConstant    = "status"
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitMessageFlagConstant             = "-m"
	gitStashSubcommandNameConstant     = "stash"
	gitStashPopSubcommandNameConstant  = "pop"
	gitResetSubcommandNameConstant     = "reset"
	gitUpdateRefSubcommandNameConstant = "update-ref"
	gitPullSubcommandNameConstant      = "pull"
	gitPushSubcommandNameConstant      = "push"
	gitTagsFlagConstant                = "--tags"
	gitArgumentTerminatorConstant      = "--"
)

const (
	gitWorkTreeStartTemplateConstant          = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant        = "%s is a Git repository"
	gitWorkTreeFailureTemplateConstant        = "Could not confirm %s is a Git repository (exit code %d%s)"
	gitCurrentBranchStartTemplateConstant     = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant   = "Current branch in %s is %s"
	gitCurrentBranchDetachedTemplateConstant  = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant   = "Failed to identify current branch in %s (exit code %d%s)"
	gitConfigStartTemplateConstant            = "Reading %s configuration"
	gitConfigSuccessTemplateConstant          = "%s is configured"
	gitConfigFailureTemplateConstant          = "%s is not configured (exit code %d)"
	gitRemoteListStartTemplateConstant        = "Listing remotes in %s"
	gitRemoteListSuccessTemplateConstant      = "Listed remotes in %s"
	gitRevListStartTemplateConstant           = "Counting commits in %s"
	gitRevListSuccessTemplateConstant         = "%s has %s commits"
	gitLogStartTemplateConstant               = "Reading latest commit message in %s"
	gitLogSuccessTemplateConstant             = "Read latest commit message in %s"
	gitStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	gitAddStartTemplateConstant               = "Staging %s in %s"
	gitAddSuccessTemplateConstant             = "Staged %s in %s"
	gitAddFailureTemplateConstant             = "Failed to stage %s in %s (exit code %d%s)"
	gitCommitStartTemplateConstant            = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant          = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant          = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitStashStartTemplateConstant             = "Stashing local changes in %s"
	gitStashSuccessTemplateConstant           = "Stashed local changes in %s"
	gitStashFailureTemplateConstant           = "Failed to stash local changes in %s (exit code %d%s)"
	gitStashPopStartTemplateConstant          = "Restoring stashed changes in %s"
	gitStashPopSuccessTemplateConstant        = "Restored stashed changes in %s"
	gitStashPopFailureTemplateConstant        = "Failed to restore stashed changes in %s (exit code %d%s)"
	gitResetStartTemplateConstant             = "Moving branch in %s back to %s"
	gitResetSuccessTemplateConstant           = "Moved branch in %s back to %s"
	gitResetFailureTemplateConstant           = "Failed to move branch in %s back to %s (exit code %d%s)"
	gitUpdateRefDeleteStartTemplateConstant   = "Removing %s in %s"
	gitUpdateRefDeleteSuccessTemplateConstant = "Removed %s in %s"
	gitUpdateRefDeleteFailureTemplateConstant = "Failed to remove %s in %s (exit code %d%s)"
	gitPullStartTemplateConstant              = "Rebasing %s onto %s from %s"
	gitPullSuccessTemplateConstant            = "Rebased %s onto %s from %s"
	gitPullFailureTemplateConstant            = "Failed to rebase %s onto %s from %s (exit code %d%s)"
	gitPushStartTemplateConstant              = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant            = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant            = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushTagsLabelConstant                  = "tags"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildCompletionMessage formats the success message using the command output.
func (formatter CommandMessageFormatter) BuildCompletionMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 || stage == messageStageExecutionFailure {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	message := formatter.describeGitMessage(command, result, stage)
	if len(message) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	return message
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitWorkTreeFlagConstant) {
			return selectMessage(stage,
				fmt.Sprintf(gitWorkTreeStartTemplateConstant, workingDirectory),
				fmt.Sprintf(gitWorkTreeSuccessTemplateConstant, workingDirectory),
				fmt.Sprintf(gitWorkTreeFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix))
		}
		if containsArgument(arguments, gitAbbrevRefFlagConstant) {
			branchName := strings.TrimSpace(result.StandardOutput)
			successMessage := fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, branchName)
			if len(branchName) == 0 || branchName == gitHeadReferenceConstant {
				successMessage = fmt.Sprintf(gitCurrentBranchDetachedTemplateConstant, workingDirectory)
			}
			return selectMessage(stage,
				fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory),
				successMessage,
				fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix))
		}
	case gitConfigSubcommandNameConstant:
		key := formatter.ensureValue(formatter.lastArgument(arguments))
		return selectMessage(stage,
			fmt.Sprintf(gitConfigStartTemplateConstant, key),
			fmt.Sprintf(gitConfigSuccessTemplateConstant, key),
			fmt.Sprintf(gitConfigFailureTemplateConstant, key, result.ExitCode))
	case gitRemoteSubcommandNameConstant:
		if len(arguments) == 1 {
			return selectMessage(stage,
				fmt.Sprintf(gitRemoteListStartTemplateConstant, workingDirectory),
				fmt.Sprintf(gitRemoteListSuccessTemplateConstant, workingDirectory),
				emptyStringConstant)
		}
	case gitRevListSubcommandNameConstant:
		return selectMessage(stage,
			fmt.Sprintf(gitRevListStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitRevListSuccessTemplateConstant, workingDirectory, formatter.ensureValue(result.StandardOutput)),
			emptyStringConstant)
	case gitLogSubcommandNameConstant:
		return selectMessage(stage,
			fmt.Sprintf(gitLogStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitLogSuccessTemplateConstant, workingDirectory),
			emptyStringConstant)
	case gitStatusSubcommandNameConstant:
		return selectMessage(stage,
			fmt.Sprintf(gitStatusStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStatusSuccessTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStatusFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix))
	case gitAddSubcommandNameConstant:
		stagedPath := formatter.ensureValue(formatter.argumentAfterTerminator(arguments))
		return selectMessage(stage,
			fmt.Sprintf(gitAddStartTemplateConstant, stagedPath, workingDirectory),
			fmt.Sprintf(gitAddSuccessTemplateConstant, stagedPath, workingDirectory),
			fmt.Sprintf(gitAddFailureTemplateConstant, stagedPath, workingDirectory, result.ExitCode, standardErrorSuffix))
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.extractCommitMessage(arguments)
		return selectMessage(stage,
			fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage),
			fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, standardErrorSuffix))
	case gitStashSubcommandNameConstant:
		if containsArgument(arguments, gitStashPopSubcommandNameConstant) {
			return selectMessage(stage,
				fmt.Sprintf(gitStashPopStartTemplateConstant, workingDirectory),
				fmt.Sprintf(gitStashPopSuccessTemplateConstant, workingDirectory),
				fmt.Sprintf(gitStashPopFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix))
		}
		return selectMessage(stage,
			fmt.Sprintf(gitStashStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStashSuccessTemplateConstant, workingDirectory),
			fmt.Sprintf(gitStashFailureTemplateConstant, workingDirectory, result.ExitCode, standardErrorSuffix))
	case gitResetSubcommandNameConstant:
		target := formatter.ensureValue(formatter.lastArgument(arguments))
		return selectMessage(stage,
			fmt.Sprintf(gitResetStartTemplateConstant, workingDirectory, target),
			fmt.Sprintf(gitResetSuccessTemplateConstant, workingDirectory, target),
			fmt.Sprintf(gitResetFailureTemplateConstant, workingDirectory, target, result.ExitCode, standardErrorSuffix))
	case gitUpdateRefSubcommandNameConstant:
		reference := formatter.ensureValue(formatter.lastArgument(arguments))
		return selectMessage(stage,
			fmt.Sprintf(gitUpdateRefDeleteStartTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitUpdateRefDeleteSuccessTemplateConstant, reference, workingDirectory),
			fmt.Sprintf(gitUpdateRefDeleteFailureTemplateConstant, reference, workingDirectory, result.ExitCode, standardErrorSuffix))
	case gitPullSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		remoteLabel := formatter.ensureValue(remoteName)
		branchLabel := formatter.ensureValue(strings.Join(references, ", "))
		return selectMessage(stage,
			fmt.Sprintf(gitPullStartTemplateConstant, workingDirectory, branchLabel, remoteLabel),
			fmt.Sprintf(gitPullSuccessTemplateConstant, workingDirectory, branchLabel, remoteLabel),
			fmt.Sprintf(gitPullFailureTemplateConstant, workingDirectory, branchLabel, remoteLabel, result.ExitCode, standardErrorSuffix))
	case gitPushSubcommandNameConstant:
		remoteName, references := formatter.extractRemoteAndReferences(arguments[1:])
		remoteLabel := formatter.ensureValue(remoteName)
		referenceLabel := formatter.ensureValue(strings.Join(references, ", "))
		if containsArgument(arguments, gitTagsFlagConstant) {
			referenceLabel = gitPushTagsLabelConstant
		}
		return selectMessage(stage,
			fmt.Sprintf(gitPushStartTemplateConstant, referenceLabel, remoteLabel, workingDirectory),
			fmt.Sprintf(gitPushSuccessTemplateConstant, referenceLabel, remoteLabel, workingDirectory),
			fmt.Sprintf(gitPushFailureTemplateConstant, referenceLabel, remoteLabel, workingDirectory, result.ExitCode, standardErrorSuffix))
	}

	return emptyStringConstant
}

func selectMessage(stage messageStage, startMessage string, successMessage string, failureMessage string) string {
	switch stage {
	case messageStageStart:
		return startMessage
	case messageStageSuccess:
		return successMessage
	case messageStageFailure:
		return failureMessage
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	if len(arguments) == 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[len(arguments)-1])
}

func (formatter CommandMessageFormatter) argumentAfterTerminator(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if arguments[index] == gitArgumentTerminatorConstant && index+1 < len(arguments) {
			return arguments[index+1]
		}
	}
	return formatter.lastArgument(arguments)
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}
