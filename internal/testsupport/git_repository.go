package testsupport

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const (
	gitExecutableNameConstant   = "git"
	gitCommandTimeoutConstant   = 30 * time.Second
	defaultBranchNameConstant   = "main"
	testAuthorNameConstant      = "gitcare tests"
	testAuthorEmailConstant     = "tests@gitcare.invalid"
	missingGitSkipMessage       = "git executable not available"
	gitCommandFailureTemplate   = "git %v failed: %v\n%s"
	defaultFilePermissionsValue = 0o644
)

// RequireGit skips the test when the git executable is not on PATH.
func RequireGit(testInstance testing.TB) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testInstance.Skip(missingGitSkipMessage)
	}
}

// GitRepository is a throwaway working tree created under the test's temporary directory.
type GitRepository struct {
	Root         string
	testInstance testing.TB
}

// NewGitRepository initializes an empty repository on branch main with a local identity.
func NewGitRepository(testInstance testing.TB) *GitRepository {
	testInstance.Helper()
	RequireGit(testInstance)

	root, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	if resolveError != nil {
		testInstance.Fatalf("resolve temporary directory: %v", resolveError)
	}
	repository := &GitRepository{Root: root, testInstance: testInstance}
	repository.Git("init", "-q")
	repository.Git("symbolic-ref", "HEAD", "refs/heads/"+defaultBranchNameConstant)
	repository.Git("config", "user.name", testAuthorNameConstant)
	repository.Git("config", "user.email", testAuthorEmailConstant)
	repository.Git("config", "commit.gpgsign", "false")
	return repository
}

// NewBareRemote initializes a bare repository suitable for use as a push target.
func NewBareRemote(testInstance testing.TB) string {
	testInstance.Helper()
	RequireGit(testInstance)

	root, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	if resolveError != nil {
		testInstance.Fatalf("resolve temporary directory: %v", resolveError)
	}
	RunGit(testInstance, root, "init", "-q", "--bare")
	RunGit(testInstance, root, "symbolic-ref", "HEAD", "refs/heads/"+defaultBranchNameConstant)
	return root
}

// Git runs git inside the repository and returns trimmed standard output.
func (repository *GitRepository) Git(arguments ...string) string {
	repository.testInstance.Helper()
	return RunGit(repository.testInstance, repository.Root, arguments...)
}

// WriteFile writes content to a root-relative path, creating parent directories.
func (repository *GitRepository) WriteFile(relativePath string, content string, permissions os.FileMode) string {
	repository.testInstance.Helper()
	if permissions == 0 {
		permissions = defaultFilePermissionsValue
	}
	absolutePath := filepath.Join(repository.Root, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
		repository.testInstance.Fatalf("create parent directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(content), permissions); writeError != nil {
		repository.testInstance.Fatalf("write %s: %v", relativePath, writeError)
	}
	if chmodError := os.Chmod(absolutePath, permissions); chmodError != nil {
		repository.testInstance.Fatalf("chmod %s: %v", relativePath, chmodError)
	}
	return absolutePath
}

// CommitFile writes, stages, and commits a single file.
func (repository *GitRepository) CommitFile(relativePath string, content string, message string) {
	repository.testInstance.Helper()
	repository.WriteFile(relativePath, content, 0)
	repository.Git("add", "--", relativePath)
	repository.Git("commit", "-q", "-m", message)
}

// AddSubmodule commits a submodule at relativePath backed by a fresh single-commit repository.
func (repository *GitRepository) AddSubmodule(relativePath string) {
	repository.testInstance.Helper()
	source := NewGitRepository(repository.testInstance)
	source.CommitFile("f", "tracked\n", "Initial submodule commit")
	repository.Git("-c", "protocol.file.allow=always", "submodule", "add", source.Root, relativePath)
	repository.Git("commit", "-q", "-m", "Add submodule "+relativePath)
}

// CommitCount returns the number of commits reachable from HEAD, zero for an unborn branch.
func (repository *GitRepository) CommitCount() int {
	repository.testInstance.Helper()
	command := exec.Command(gitExecutableNameConstant, "rev-list", "--count", "HEAD")
	command.Dir = repository.Root
	output, runError := command.Output()
	if runError != nil {
		return 0
	}
	count, parseError := strconv.Atoi(strings.TrimSpace(string(output)))
	if parseError != nil {
		repository.testInstance.Fatalf("parse commit count: %v", parseError)
	}
	return count
}

// ReadFile returns the content of a root-relative path.
func (repository *GitRepository) ReadFile(relativePath string) string {
	repository.testInstance.Helper()
	content, readError := os.ReadFile(filepath.Join(repository.Root, filepath.FromSlash(relativePath)))
	if readError != nil {
		repository.testInstance.Fatalf("read %s: %v", relativePath, readError)
	}
	return string(content)
}

// RunGit executes git in workingDirectory and fails the test on a non-zero exit.
func RunGit(testInstance testing.TB, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	executionContext, cancel := context.WithTimeout(context.Background(), gitCommandTimeoutConstant)
	defer cancel()

	command := exec.CommandContext(executionContext, gitExecutableNameConstant, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, runError := command.CombinedOutput()
	if runError != nil {
		testInstance.Fatalf(gitCommandFailureTemplate, arguments, runError, string(output))
	}
	return strings.TrimSpace(string(output))
}
