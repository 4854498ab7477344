package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/makex/internal/workspace"
)

func listTreeEntries(testInstance *testing.T, root string) []string {
	testInstance.Helper()
	entries := make([]string, 0)
	walkError := filepath.WalkDir(root, func(currentPath string, _ os.DirEntry, visitError error) error {
		require.NoError(testInstance, visitError)
		if currentPath == root {
			return nil
		}
		relativePath, relativeError := filepath.Rel(root, currentPath)
		require.NoError(testInstance, relativeError)
		entries = append(entries, relativePath)
		return nil
	})
	require.NoError(testInstance, walkError)
	return entries
}

func TestCleanerRequiresRoot(testInstance *testing.T) {
	_, cleanError := workspace.NewCleaner(zap.NewNop()).Clean(workspace.CleanRequest{})
	require.ErrorIs(testInstance, cleanError, workspace.ErrCleanerRootMissing)
}

func TestCleanerRemovesArtifactsAndPreservesSources(testInstance *testing.T) {
	root := testInstance.TempDir()
	writeTestFile(testInstance, root, "module.py")
	writeTestFile(testInstance, root, "module.pyc")
	writeTestFile(testInstance, root, filepath.Join("package", "__pycache__", "module.cpython-311.pyc"))
	writeTestFile(testInstance, root, filepath.Join("makex.egg-info", "PKG-INFO"))
	writeTestFile(testInstance, root, filepath.Join(".pytest_cache", "CACHEDIR.TAG"))
	writeTestFile(testInstance, root, filepath.Join("build", "lib", "module.py"))
	writeTestFile(testInstance, root, filepath.Join("dist", "makex-1.0.tar.gz"))

	removedPaths, cleanError := workspace.NewCleaner(zap.NewNop()).Clean(workspace.CleanRequest{Root: root})
	require.NoError(testInstance, cleanError)
	require.Len(testInstance, removedPaths, 6)

	remainingEntries := listTreeEntries(testInstance, root)
	require.Equal(testInstance, []string{"module.py", "package"}, remainingEntries)
}

func TestCleanerIsIdempotent(testInstance *testing.T) {
	root := testInstance.TempDir()
	writeTestFile(testInstance, root, "module.py")
	writeTestFile(testInstance, root, "module.pyc")

	cleaner := workspace.NewCleaner(zap.NewNop())

	firstRemoved, firstError := cleaner.Clean(workspace.CleanRequest{Root: root})
	require.NoError(testInstance, firstError)
	require.Len(testInstance, firstRemoved, 1)
	stateAfterFirst := listTreeEntries(testInstance, root)

	secondRemoved, secondError := cleaner.Clean(workspace.CleanRequest{Root: root})
	require.NoError(testInstance, secondError)
	require.Empty(testInstance, secondRemoved)
	require.Equal(testInstance, stateAfterFirst, listTreeEntries(testInstance, root))
}
