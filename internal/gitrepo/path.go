package gitrepo

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	homeShortcutConstant            = "~"
	homeShortcutSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// RepositoryPathResolver normalizes user-supplied repository roots into absolute, cleaned paths.
type RepositoryPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewRepositoryPathResolver constructs a resolver. A nil provider selects os.UserHomeDir.
func NewRepositoryPathResolver(provider HomeDirectoryProvider) RepositoryPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return RepositoryPathResolver{homeDirectoryProvider: provider}
}

// Resolve expands a leading tilde and anchors relative candidates at baseDirectory.
// An empty candidate resolves to baseDirectory itself.
func (resolver RepositoryPathResolver) Resolve(candidatePath string, baseDirectory string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	trimmedBase := strings.TrimSpace(baseDirectory)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = trimmedBase
	}
	if len(trimmedCandidate) == 0 {
		return "", ErrRepositoryPathRequired
	}

	expandedCandidate := resolver.expandHome(trimmedCandidate)
	if !filepath.IsAbs(expandedCandidate) && len(trimmedBase) > 0 {
		expandedCandidate = filepath.Join(trimmedBase, expandedCandidate)
	}
	return filepath.Abs(expandedCandidate)
}

func (resolver RepositoryPathResolver) expandHome(candidatePath string) string {
	isShortcut := candidatePath == homeShortcutConstant
	hasShortcutPrefix := strings.HasPrefix(candidatePath, homeShortcutSlashPrefixConstant) ||
		strings.HasPrefix(candidatePath, homeShortcutConstant+string(os.PathSeparator))
	if !isShortcut && !hasShortcutPrefix {
		return candidatePath
	}

	provider := resolver.homeDirectoryProvider
	if provider == nil {
		provider = os.UserHomeDir
	}
	homeDirectory, homeError := provider()
	if homeError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	if isShortcut {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, candidatePath[len(homeShortcutSlashPrefixConstant):])
}
