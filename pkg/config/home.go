package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const envHome = "SUITE_REPORTER_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the suite-reporter home directory. It holds a fallback
// suite-reporter.yaml, a .env file and the logs/ directory.
//
// Resolution order:
//  1. $SUITE_REPORTER_HOME environment variable
//  2. Parent of the binary's directory (if binary is in <home>/bin/)
//  3. Current working directory
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetLogsDir returns <home>/logs.
func GetLogsDir() string {
	return filepath.Join(GetHome(), "logs")
}

// NewLogFile creates <home>/logs if needed and returns a fresh log path
// named after now, e.g. suite-reporter-20260102-150405.log.
func NewLogFile(now time.Time) (string, error) {
	dir := GetLogsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}
	return filepath.Join(dir, "suite-reporter-"+now.Format("20060102-150405")+".log"), nil
}

func resolveHome() string {
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		binDir := filepath.Dir(execPath)
		if filepath.Base(binDir) == "bin" {
			return filepath.Dir(binDir)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
