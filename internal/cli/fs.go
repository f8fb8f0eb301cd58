package cli

import (
	"fmt"
	"os"
	"tradedesk/internal/common"
)

// GetFilePathFromArgs returns the absolute path of the file named by the
// first positional argument, if any
func GetFilePathFromArgs(args []string) (isDefined bool, filePath string, err error) {
	if len(args) == 0 {
		return false, "", nil
	}
	filePath, err = common.ToAbsolutePath(args[0])
	if err != nil {
		return false, "", fmt.Errorf("failed to resolve file path[%s]: %w", args[0], err)
	}
	fi, err := os.Stat(filePath)
	if err != nil {
		return false, "", fmt.Errorf("failed to check for existence of file at path[%s]: %w", filePath, err)
	}
	if fi.IsDir() {
		return false, "", fmt.Errorf("failed to get a file at path[%s]: got a directory", filePath)
	}
	return true, filePath, nil
}
