package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/gitcare/internal/execshell"
	"github.com/temirov/gitcare/internal/filesystem"
)

const (
	// DefaultNetworkTimeout bounds pull and push invocations when no timeout is configured.
	DefaultNetworkTimeout = 2 * time.Minute

	gitRevParseSubcommandConstant      = "rev-parse"
	gitInsideWorkTreeFlagConstant      = "--is-inside-work-tree"
	gitVerifyFlagConstant              = "--verify"
	gitQuietFlagConstant               = "--quiet"
	gitAbbrevRefFlagConstant           = "--abbrev-ref"
	gitHeadReferenceConstant           = "HEAD"
	gitConfigSubcommandConstant        = "config"
	gitConfigGetFlagConstant           = "--get"
	gitRemoteSubcommandConstant        = "remote"
	gitRevListSubcommandConstant       = "rev-list"
	gitCountFlagConstant               = "--count"
	gitLogSubcommandConstant           = "log"
	gitSingleEntryFlagConstant         = "-1"
	gitBodyFormatFlagConstant          = "--format=%B"
	gitStatusSubcommandConstant        = "status"
	gitPorcelainFlagConstant           = "--porcelain"
	gitAddSubcommandConstant           = "add"
	gitArgumentTerminatorConstant      = "--"
	gitCommitSubcommandConstant        = "commit"
	gitMessageFlagConstant             = "-m"
	gitOnlyFlagConstant                = "--only"
	gitStashReferenceConstant          = "refs/stash"
	gitStashSubcommandConstant         = "stash"
	gitStashPushSubcommandConstant     = "push"
	gitStashPopSubcommandConstant      = "pop"
	gitIncludeUntrackedFlagConstant    = "--include-untracked"
	gitResetSubcommandConstant         = "reset"
	gitSoftFlagConstant                = "--soft"
	gitUpdateRefSubcommandConstant     = "update-ref"
	gitDeleteFlagConstant              = "-d"
	gitPullSubcommandConstant          = "pull"
	gitRebaseFlagConstant              = "--rebase"
	gitPushSubcommandConstant          = "push"
	gitTagsFlagConstant                = "--tags"
	gitTrueOutputConstant              = "true"
	gitConfigMissingExitCodeConstant   = 1
	gitTerminalPromptEnvironmentName   = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValue     = "0"
	operationConfigValueConstant       = "config --get"
	operationRemotesConstant           = "remote"
	operationCommitCountConstant       = "rev-list --count"
	operationCurrentBranchConstant     = "rev-parse --abbrev-ref"
	operationHeadMessageConstant       = "log"
	operationStatusConstant            = "status"
	operationStageConstant             = "add"
	operationCommitConstant            = "commit"
	operationStashConstant             = "stash push"
	operationStashPopConstant          = "stash pop"
	operationResetSoftConstant         = "reset --soft"
	operationDeleteHeadRefConstant     = "update-ref -d HEAD"
	operationPullRebaseConstant        = "pull --rebase"
	operationPushConstant              = "push"
	operationPushTagsConstant          = "push --tags"
	operationSetExecutableConstant     = "chmod"
	ownerExecutePermissionConstant     = fs.FileMode(0o100)
	commitCountParseErrorTemplate      = "unexpected commit count %q: %w"
	setExecutableNotRegularFileMessage = "not a regular file"
)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager implements the gateway operations over the git CLI.
type RepositoryManager struct {
	executor       GitExecutor
	fileSystem     filesystem.FileSystem
	networkTimeout time.Duration
}

// NewRepositoryManager constructs a RepositoryManager. A non-positive timeout selects DefaultNetworkTimeout.
func NewRepositoryManager(executor GitExecutor, fileSystem filesystem.FileSystem, networkTimeout time.Duration) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if networkTimeout <= 0 {
		networkTimeout = DefaultNetworkTimeout
	}
	return &RepositoryManager{executor: executor, fileSystem: fileSystem, networkTimeout: networkTimeout}, nil
}

// IsRepository reports whether root lies inside a Git working tree. Any detection error yields false.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, root string) bool {
	if len(strings.TrimSpace(root)) == 0 {
		return false
	}
	rootInfo, statError := manager.fileSystem.Stat(root)
	if statError != nil || !rootInfo.IsDir() {
		return false
	}
	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant},
		WorkingDirectory: root,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(result.StandardOutput) == gitTrueOutputConstant
}

// ConfigValue returns the effective configuration value for key. The boolean is false when the key is unset.
// Root only supplies the working directory and may be empty or missing, in which case global settings apply.
func (manager *RepositoryManager) ConfigValue(executionContext context.Context, root string, key string) (string, bool, error) {
	workingDirectory := ""
	if len(strings.TrimSpace(root)) > 0 {
		if rootInfo, statError := manager.fileSystem.Stat(root); statError == nil && rootInfo.IsDir() {
			workingDirectory = root
		}
	}
	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, gitConfigGetFlagConstant, key},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		var failure execshell.CommandFailedError
		if errors.As(executionError, &failure) && failure.Result.ExitCode == gitConfigMissingExitCodeConstant {
			return "", false, nil
		}
		return "", false, newOperationError(operationConfigValueConstant, executionError)
	}
	value := strings.TrimSpace(result.StandardOutput)
	if len(value) == 0 {
		return "", false, nil
	}
	return value, true, nil
}

// Remotes lists the configured remote names in the order git reports them.
func (manager *RepositoryManager) Remotes(executionContext context.Context, root string) ([]string, error) {
	result, executionError := manager.run(executionContext, root, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, newOperationError(operationRemotesConstant, executionError)
	}
	return splitOutputLines(result.StandardOutput), nil
}

// CommitCount returns the number of commits reachable from HEAD. An unborn branch has zero commits.
func (manager *RepositoryManager) CommitCount(executionContext context.Context, root string) (int, error) {
	_, verifyError := manager.run(executionContext, root, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitHeadReferenceConstant)
	if verifyError != nil {
		var failure execshell.CommandFailedError
		if errors.As(verifyError, &failure) {
			return 0, nil
		}
		return 0, newOperationError(operationCommitCountConstant, verifyError)
	}

	result, executionError := manager.run(executionContext, root, gitRevListSubcommandConstant, gitCountFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return 0, newOperationError(operationCommitCountConstant, executionError)
	}
	trimmedOutput := strings.TrimSpace(result.StandardOutput)
	count, parseError := strconv.Atoi(trimmedOutput)
	if parseError != nil {
		return 0, newOperationError(operationCommitCountConstant, fmt.Errorf(commitCountParseErrorTemplate, trimmedOutput, parseError))
	}
	return count, nil
}

// CurrentBranch returns the checked-out branch name, or ErrDetachedHead.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, root string) (string, error) {
	result, executionError := manager.run(executionContext, root, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", newOperationError(operationCurrentBranchConstant, executionError)
	}
	branchName := strings.TrimSpace(result.StandardOutput)
	if len(branchName) == 0 || branchName == gitHeadReferenceConstant {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// HeadMessage returns the full message of the HEAD commit without trailing whitespace.
func (manager *RepositoryManager) HeadMessage(executionContext context.Context, root string) (string, error) {
	result, executionError := manager.run(executionContext, root, gitLogSubcommandConstant, gitSingleEntryFlagConstant, gitBodyFormatFlagConstant)
	if executionError != nil {
		return "", newOperationError(operationHeadMessageConstant, executionError)
	}
	return strings.TrimRight(result.StandardOutput, " \t\r\n"), nil
}

// Status returns porcelain status text; it is empty iff the working tree is clean.
func (manager *RepositoryManager) Status(executionContext context.Context, root string) (string, error) {
	result, executionError := manager.run(executionContext, root, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return "", newOperationError(operationStatusConstant, executionError)
	}
	return strings.TrimRight(result.StandardOutput, "\n"), nil
}

// StagePath adds exactly one root-relative path to the index.
func (manager *RepositoryManager) StagePath(executionContext context.Context, root string, relativePath string) error {
	if _, executionError := manager.run(executionContext, root, gitAddSubcommandConstant, gitArgumentTerminatorConstant, relativePath); executionError != nil {
		return newOperationError(operationStageConstant, executionError)
	}
	return nil
}

// CommitPath commits the staged state of exactly one root-relative path.
// Other staged entries stay in the index and out of the commit.
func (manager *RepositoryManager) CommitPath(executionContext context.Context, root string, message string, relativePath string) error {
	if _, executionError := manager.run(executionContext, root, gitCommitSubcommandConstant, gitMessageFlagConstant, message, gitOnlyFlagConstant, gitArgumentTerminatorConstant, relativePath); executionError != nil {
		return newOperationError(operationCommitConstant, executionError)
	}
	return nil
}

// Stash shelves tracked and untracked changes and reports whether a new stash entry was recorded.
// git exits zero without creating an entry when nothing is stashable, for example a dirty submodule.
func (manager *RepositoryManager) Stash(executionContext context.Context, root string) (bool, error) {
	previousEntry, previousError := manager.stashEntry(executionContext, root)
	if previousError != nil {
		return false, newOperationError(operationStashConstant, previousError)
	}
	if _, executionError := manager.run(executionContext, root, gitStashSubcommandConstant, gitStashPushSubcommandConstant, gitIncludeUntrackedFlagConstant); executionError != nil {
		return false, newOperationError(operationStashConstant, executionError)
	}
	currentEntry, currentError := manager.stashEntry(executionContext, root)
	if currentError != nil {
		return false, newOperationError(operationStashConstant, currentError)
	}
	return len(currentEntry) > 0 && currentEntry != previousEntry, nil
}

// StashPop restores the most recent stash entry.
func (manager *RepositoryManager) StashPop(executionContext context.Context, root string) error {
	if _, executionError := manager.run(executionContext, root, gitStashSubcommandConstant, gitStashPopSubcommandConstant); executionError != nil {
		return newOperationError(operationStashPopConstant, executionError)
	}
	return nil
}

// ResetSoft moves the branch pointer to target, leaving the index and working tree untouched.
func (manager *RepositoryManager) ResetSoft(executionContext context.Context, root string, target string) error {
	if _, executionError := manager.run(executionContext, root, gitResetSubcommandConstant, gitSoftFlagConstant, target); executionError != nil {
		return newOperationError(operationResetSoftConstant, executionError)
	}
	return nil
}

// DeleteHeadRef removes the branch HEAD points at, returning the repository to an unborn state.
func (manager *RepositoryManager) DeleteHeadRef(executionContext context.Context, root string) error {
	if _, executionError := manager.run(executionContext, root, gitUpdateRefSubcommandConstant, gitDeleteFlagConstant, gitHeadReferenceConstant); executionError != nil {
		return newOperationError(operationDeleteHeadRefConstant, executionError)
	}
	return nil
}

// PullRebase fetches branch from remote and replays local commits on top of it.
func (manager *RepositoryManager) PullRebase(executionContext context.Context, root string, remote string, branch string) error {
	return manager.runNetwork(executionContext, root, operationPullRebaseConstant, gitPullSubcommandConstant, gitRebaseFlagConstant, remote, branch)
}

// Push publishes branch to remote.
func (manager *RepositoryManager) Push(executionContext context.Context, root string, remote string, branch string) error {
	return manager.runNetwork(executionContext, root, operationPushConstant, gitPushSubcommandConstant, remote, branch)
}

// PushTags publishes all local tags to remote.
func (manager *RepositoryManager) PushTags(executionContext context.Context, root string, remote string) error {
	return manager.runNetwork(executionContext, root, operationPushTagsConstant, gitPushSubcommandConstant, remote, gitTagsFlagConstant)
}

// SetExecutable grants the owner execute bit on a root-relative regular file.
func (manager *RepositoryManager) SetExecutable(executionContext context.Context, root string, relativePath string) error {
	absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
	fileInfo, statError := manager.fileSystem.Lstat(absolutePath)
	if statError != nil {
		return newOperationError(operationSetExecutableConstant, statError)
	}
	if !fileInfo.Mode().IsRegular() {
		return newOperationError(operationSetExecutableConstant, errors.New(setExecutableNotRegularFileMessage))
	}
	if chmodError := manager.fileSystem.Chmod(absolutePath, fileInfo.Mode().Perm()|ownerExecutePermissionConstant); chmodError != nil {
		return newOperationError(operationSetExecutableConstant, chmodError)
	}
	return nil
}

// stashEntry returns the object name of the newest stash entry, or an empty string when there is none.
func (manager *RepositoryManager) stashEntry(executionContext context.Context, root string) (string, error) {
	result, executionError := manager.run(executionContext, root, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitStashReferenceConstant)
	if executionError != nil {
		var failure execshell.CommandFailedError
		if errors.As(executionError, &failure) {
			return "", nil
		}
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

func (manager *RepositoryManager) run(executionContext context.Context, root string, arguments ...string) (execshell.ExecutionResult, error) {
	if len(strings.TrimSpace(root)) == 0 {
		return execshell.ExecutionResult{}, ErrRepositoryPathRequired
	}
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: root,
	})
}

func (manager *RepositoryManager) runNetwork(executionContext context.Context, root string, operation string, arguments ...string) error {
	if len(strings.TrimSpace(root)) == 0 {
		return newOperationError(operation, ErrRepositoryPathRequired)
	}
	networkContext, cancel := context.WithTimeout(executionContext, manager.networkTimeout)
	defer cancel()

	_, executionError := manager.executor.ExecuteGit(networkContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     root,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentName: gitTerminalPromptDisabledValue},
	})
	if executionError == nil {
		return nil
	}
	if execshell.IsTimeout(executionError) || errors.Is(networkContext.Err(), context.DeadlineExceeded) {
		return newOperationError(operation, fmt.Errorf("%w: %w", ErrOperationTimeout, executionError))
	}
	return newOperationError(operation, executionError)
}

func newOperationError(operation string, cause error) *OperationError {
	return &OperationError{Operation: operation, Cause: cause}
}

func splitOutputLines(output string) []string {
	lines := strings.Split(output, "\n")
	values := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}
