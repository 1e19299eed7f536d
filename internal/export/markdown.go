// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Andriykkk/ai-cli/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders transcripts as readable Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// Export renders the transcript.
func (e *MarkdownExporter) Export(tr *Transcript) ([]byte, error) {
	if tr == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(tr.Turns) == 0 {
		return nil, fmt.Errorf("transcript has no turns")
	}

	var sb strings.Builder

	title := tr.ProjectName
	if title == "" {
		title = fmt.Sprintf("Project %d", tr.ProjectID)
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Project**: %s\n", title))
		sb.WriteString(fmt.Sprintf("- **Turns**: %d\n", len(tr.Turns)))
		sb.WriteString(fmt.Sprintf("- **Exported**: %s\n", tr.ExportedAt.Format(time.RFC3339)))
		sb.WriteString("\n---\n\n")
	}

	for _, turn := range tr.Turns {
		e.writeTurn(&sb, turn)
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) writeTurn(sb *strings.Builder, turn *model.Turn) {
	label := turn.Role.DisplayName()
	if turn.IsError {
		label += " (error)"
	}
	if turn.Canceled {
		label += " (canceled)"
	}

	if e.options.IncludeTimestamps && !turn.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, turn.Timestamp.Format("2006-01-02 15:04")))
	} else {
		sb.WriteString(fmt.Sprintf("### %s\n\n", label))
	}

	if turn.Content != "" {
		sb.WriteString(turn.Content)
		sb.WriteString("\n\n")
	}

	for i, call := range turn.ToolCalls {
		sb.WriteString(fmt.Sprintf("**Tool: %s**\n\n", call.Name))
		if cmd := call.ArgumentString("command"); cmd != "" {
			sb.WriteString(fmt.Sprintf("```sh\n%s\n```\n\n", cmd))
		}
		if e.options.IncludeToolOutput && i < len(turn.ToolResults) {
			result := turn.ToolResults[i]
			sb.WriteString(fmt.Sprintf("```\n%s\n```\n\n", strings.TrimRight(result.Content, "\n")))
		}
	}
}
