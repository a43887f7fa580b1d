// ABOUTME: Standard filesystem paths for ternimal demo configuration and data
// ABOUTME: Resolves ~/.ternimal/ for the global config file and line history

package config

import (
	"os"
	"path/filepath"
)

const globalDirName = ".ternimal"

// GlobalDir returns the user-global config directory (~/.ternimal/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// HistoryFile returns the default path of the prompt history.
func HistoryFile() string {
	return filepath.Join(GlobalDir(), "history")
}
