package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcare/internal/gitrepo"
)

func TestRepositoryPathResolver(testInstance *testing.T) {
	resolver := gitrepo.NewRepositoryPathResolver(func() (string, error) {
		return "/home/tester", nil
	})

	testCases := []struct {
		name          string
		candidate     string
		baseDirectory string
		expectedPath  string
		expectError   error
	}{
		{name: "empty_uses_base", candidate: "  ", baseDirectory: "/work/project", expectedPath: "/work/project"},
		{name: "relative_joined", candidate: "sub/../repo", baseDirectory: "/work", expectedPath: "/work/repo"},
		{name: "absolute_kept", candidate: "/srv/repo/", baseDirectory: "/work", expectedPath: "/srv/repo"},
		{name: "home_expanded", candidate: "~/code", baseDirectory: "/work", expectedPath: "/home/tester/code"},
		{name: "nothing_supplied", expectError: gitrepo.ErrRepositoryPathRequired},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.candidate, testCase.baseDirectory)
			if testCase.expectError != nil {
				require.ErrorIs(testInstance, resolveError, testCase.expectError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}
