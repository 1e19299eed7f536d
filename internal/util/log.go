// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers for the ai-cli client.
package util

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// =============================================================================
// DIAGNOSTIC LOGGER
// =============================================================================

// The TUI owns stdout/stderr, so diagnostics (dropped frames, transport
// failures) go to ~/.ai-cli/client.log instead. Before OpenLogFile is called
// everything is discarded, which is the right behavior for tests.

var (
	logMu     sync.Mutex
	logOutput io.Writer = io.Discard
	logger              = log.New(io.Discard, "", log.LstdFlags)
)

// OpenLogFile points the diagnostic logger at the given file, creating
// parent directories as needed. Returns a close function.
func OpenLogFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	logMu.Lock()
	logOutput = f
	logger = log.New(f, "", log.LstdFlags)
	logMu.Unlock()

	return f.Close, nil
}

// Logf writes a formatted line to the diagnostic log.
func Logf(format string, args ...interface{}) {
	logMu.Lock()
	l := logger
	logMu.Unlock()
	l.Printf(format, args...)
}

// SetLogOutput redirects the diagnostic logger, primarily for tests.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	if w == nil {
		w = io.Discard
	}
	logOutput = w
	logger = log.New(w, "", log.LstdFlags)
}
