package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	CurrentSessionFilename = "current"
	CurrentSessionPath     = ".tradedesk/session"
)

var ErrorNoCurrentSession = errors.New("no_current_session")

// getSessionDirectory returns ~/.tradedesk/session, creating it when it
// does not exist yet
func getSessionDirectory() (string, error) {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user's home directory: %w", err)
	}
	sessionPath := filepath.Join(userHomeDir, CurrentSessionPath)
	fileInfo, err := os.Lstat(sessionPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to check session directory at path[%s]: %w", sessionPath, err)
		}
		if err := os.MkdirAll(sessionPath, 0o700); err != nil {
			return "", fmt.Errorf("failed to provision session directory at path[%s]: %w", sessionPath, err)
		}
		return sessionPath, nil
	}
	if !fileInfo.IsDir() {
		return "", fmt.Errorf("path[%s] exists but is not a directory, it should be", sessionPath)
	}
	return sessionPath, nil
}

func GetSessionTokenPath() (string, error) {
	sessionPath, err := getSessionDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(sessionPath, CurrentSessionFilename), nil
}

// GetSessionToken reads the token written by SaveSessionToken, returns
// ErrorNoCurrentSession when nobody is logged in
func GetSessionToken() (sessionToken string, sessionFilePath string, err error) {
	sessionFilePath, err = GetSessionTokenPath()
	if err != nil {
		return "", "", err
	}
	fileInfo, err := os.Lstat(sessionFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", ErrorNoCurrentSession
		}
		return "", "", fmt.Errorf("failed to check current session file at path[%s]: %w", sessionFilePath, err)
	} else if fileInfo.IsDir() {
		return "", "", fmt.Errorf("path[%s] exists but is a directory, it should be a file", sessionFilePath)
	}
	sessionTokenData, err := os.ReadFile(sessionFilePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file at path[%s]: %w", sessionFilePath, err)
	}
	sessionToken = strings.TrimSpace(string(sessionTokenData))
	if sessionToken == "" {
		return "", "", ErrorNoCurrentSession
	}
	return sessionToken, sessionFilePath, nil
}

func SaveSessionToken(sessionToken string) (sessionFilePath string, err error) {
	sessionFilePath, err = GetSessionTokenPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(sessionFilePath, []byte(sessionToken), 0o600); err != nil {
		return "", fmt.Errorf("failed to write session to path[%s]: %w", sessionFilePath, err)
	}
	return sessionFilePath, nil
}

func DeleteSessionToken() error {
	sessionFilePath, err := GetSessionTokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(sessionFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file at path[%s]: %w", sessionFilePath, err)
	}
	return nil
}
