package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFilePathFromArgs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "filters.csv"), []byte("brand\n"), 0o600))

	isDefined, filePath, err := GetFilePathFromArgs(nil)
	require.NoError(t, err)
	require.False(t, isDefined)
	require.Empty(t, filePath)

	isDefined, filePath, err = GetFilePathFromArgs([]string{"~/filters.csv"})
	require.NoError(t, err)
	require.True(t, isDefined)
	require.Equal(t, filepath.Join(home, "filters.csv"), filePath)

	_, _, err = GetFilePathFromArgs([]string{"~/missing.csv"})
	require.ErrorContains(t, err, "failed to check for existence")

	_, _, err = GetFilePathFromArgs([]string{"~"})
	require.ErrorContains(t, err, "got a directory")
}
