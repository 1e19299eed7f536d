// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package export writes reconstructed transcripts to files.
// Supports Markdown for reading and JSON for re-import or tooling.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the unit of export: one project's reconstructed turns
// plus enough metadata to identify where they came from.
type Transcript struct {
	ProjectID   int           `json:"project_id"`
	ProjectName string        `json:"project_name,omitempty"`
	ExportedAt  time.Time     `json:"exported_at"`
	Turns       []*model.Turn `json:"turns"`
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a transcript to one output format.
type Exporter interface {
	// Export renders the transcript and returns the file content.
	Export(tr *Transcript) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".md").
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files are written.
	// Default: current working directory.
	OutputDir string

	// IncludeMetadata includes the header (project, date, turn count).
	IncludeMetadata bool

	// IncludeTimestamps includes per-turn timestamps.
	IncludeTimestamps bool

	// IncludeToolOutput includes tool results, not just the calls.
	IncludeToolOutput bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		IncludeToolOutput: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders the transcript and writes it into opts.OutputDir,
// returning the output path. The write is atomic so a failed export never
// leaves a truncated file behind.
func ExportToFile(tr *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(tr)
	if err != nil {
		return "", fmt.Errorf("failed to render transcript: %w", err)
	}

	name := exportFilename(tr, exporter.FileExtension())
	path := filepath.Join(opts.OutputDir, name)
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// exportFilename builds a filesystem-safe name from the project and the
// export time, e.g. "demo-2025-01-02-150405.md".
func exportFilename(tr *Transcript, ext string) string {
	base := tr.ProjectName
	if base == "" {
		base = fmt.Sprintf("project-%d", tr.ProjectID)
	}
	base = sanitizeFilename(base)
	stamp := tr.ExportedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return fmt.Sprintf("%s-%s%s", base, stamp.Format("2006-01-02-150405"), ext)
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "transcript"
	}
	return b.String()
}
