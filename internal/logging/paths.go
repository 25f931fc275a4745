package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.roadwise/logs).
// Falls back to the temp directory if no home directory exists.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".roadwise", "logs")
	}
	return filepath.Join(home, ".roadwise", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "roadwise.log")
}
