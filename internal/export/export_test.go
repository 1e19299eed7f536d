// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Andriykkk/ai-cli/internal/model"
)

func sampleTranscript() *Transcript {
	user := model.NewUserHistoryTurn("list the files", time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC))
	assistant := model.NewAssistantHistoryTurn("Here you go.", time.Date(2025, 1, 2, 15, 0, 5, 0, time.UTC))
	assistant.ToolCalls = []model.ToolCall{
		{ID: "c1", Name: "run_command", Arguments: map[string]interface{}{"command": "ls"}},
	}
	assistant.ToolResults = []model.ToolResult{
		{ToolCallID: "c1", Name: "run_command", Content: "a.txt\nb.txt", Success: true},
	}
	return &Transcript{
		ProjectID:   3,
		ProjectName: "Demo Project",
		ExportedAt:  time.Date(2025, 1, 2, 16, 0, 0, 0, time.UTC),
		Turns:       []*model.Turn{user, assistant},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	content := string(out)

	for _, want := range []string{
		"# Demo Project",
		"list the files",
		"Here you go.",
		"**Tool: run_command**",
		"```sh\nls\n```",
		"a.txt\nb.txt",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExport_EmptyTranscript(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(&Transcript{ProjectID: 1})
	if err == nil {
		t.Error("expected error for empty transcript")
	}
}

func TestJSONExport_RoundTrips(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	var decoded Transcript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if decoded.ProjectID != 3 || len(decoded.Turns) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Turns[1].ToolCalls) != 1 {
		t.Errorf("tool calls lost in export")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleTranscript(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile error: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q", path)
	}
	if !strings.Contains(path, "demo-project-2025-01-02") {
		t.Errorf("filename not derived from project/date: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}
