// Package storage persists finished game records and aggregate statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName  = "sage"
	gamesDir = "games"
)

// dataHome returns the per-user root for application data:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func dataHome() (string, error) {
	env, fallback := "XDG_DATA_HOME", []string{".local", "share"}
	switch runtime.GOOS {
	case "darwin":
		env, fallback = "", []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// ensureDir joins elem onto base and creates the result.
func ensureDir(base string, elem ...string) (string, error) {
	dir := filepath.Join(append([]string{base}, elem...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the sage data directory, creating it if needed.
func GetDataDir() (string, error) {
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	return ensureDir(home, appName)
}

// GetDatabaseDir returns the directory holding the game database.
func GetDatabaseDir() (string, error) {
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	return ensureDir(home, appName, gamesDir)
}
