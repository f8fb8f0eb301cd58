package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToAbsolutePath resolves a path given on the command line. A leading "~" or
// "~/" is expanded to $HOME, "~user" forms are left to the shell
func ToAbsolutePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path[%s]: %w", path, err)
	}
	return absPath, nil
}
