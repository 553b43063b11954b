package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitagg/internal/filesystem"
)

func TestOSFileSystem(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	temporaryDirectory := testInstance.TempDir()
	filePath := filepath.Join(temporaryDirectory, "repos.yaml")
	require.NoError(testInstance, os.WriteFile(filePath, []byte("./src: {}\n"), 0o600))

	fileSystem := filesystem.OSFileSystem{}

	absolutePath, absoluteError := fileSystem.Abs("checkout")
	require.NoError(testInstance, absoluteError)
	require.Equal(testInstance, filepath.Join(workingDirectory, "checkout"), absolutePath)

	directoryInfo, statError := fileSystem.Stat(temporaryDirectory)
	require.NoError(testInstance, statError)
	require.True(testInstance, directoryInfo.IsDir())

	_, missingError := fileSystem.Stat(filepath.Join(temporaryDirectory, "missing"))
	require.ErrorIs(testInstance, missingError, os.ErrNotExist)

	contents, readError := fileSystem.ReadFile(filePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "./src: {}\n", string(contents))
}
