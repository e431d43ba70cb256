package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	stdoutWriter io.Writer = os.Stdout
	stderrWriter io.Writer = os.Stderr
)

func init() {
	// Check for STDOUT environment variable
	if path := os.Getenv("STDOUT"); path != "" {
		stdoutWriter = io.MultiWriter(os.Stdout, openLogFile(path))
	}

	// Check for STDERR environment variable
	if path := os.Getenv("STDERR"); path != "" {
		stderrWriter = io.MultiWriter(os.Stderr, openLogFile(path))
	}
}

func openLogFile(path string) *os.File {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		panic(fmt.Errorf("failed to create log directory: %v", err))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %v", err))
	}
	return file
}
