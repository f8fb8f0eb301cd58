package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToAbsolutePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := ToAbsolutePath("~")
	require.NoError(t, err)
	require.Equal(t, home, resolved)

	resolved, err = ToAbsolutePath("~/imports/filters.csv")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "imports", "filters.csv"), resolved)

	wd, err := os.Getwd()
	require.NoError(t, err)
	resolved, err = ToAbsolutePath(" template.json ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "template.json"), resolved)

	resolved, err = ToAbsolutePath("/tmp/../etc/hosts")
	require.NoError(t, err)
	require.Equal(t, "/etc/hosts", resolved)

	_, err = ToAbsolutePath("  ")
	require.Error(t, err)
}
