// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package history

import (
	"encoding/json"
	"time"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// PERSISTED ENTRY FORMAT
// =============================================================================

// entry is one element of a structured history record's message array.
// Tool entries carry the tool's output in Content; historical entries do
// not retain tool-call ids, so pairing back to calls is positional.
type entry struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []model.ToolCall `json:"tool_calls,omitempty"`
	Name      string           `json:"name,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
}

// =============================================================================
// RECONSTRUCTION
// =============================================================================

// Reconstruct converts persisted history records into an ordered turn list.
//
// Each record is either a legacy {message, response} pair, emitted as one
// user turn and one assistant turn, or a JSON array of role-tagged entries
// describing a full round. Records are processed in order and their turns
// concatenated; the function is pure, so reconstructing the same records
// twice yields the same sequence.
func Reconstruct(records []api.HistoryRecord) []*model.Turn {
	var turns []*model.Turn
	for _, rec := range records {
		turns = append(turns, reconstructRecord(rec)...)
	}
	return turns
}

func reconstructRecord(rec api.HistoryRecord) []*model.Turn {
	ts := parseTimestamp(rec.Timestamp)

	var entries []entry
	if err := json.Unmarshal([]byte(rec.Message), &entries); err != nil {
		return legacyTurns(rec, ts)
	}
	if entries == nil {
		// "null" or an empty message parses without error but carries no
		// structure; treat it like a legacy row.
		return legacyTurns(rec, ts)
	}
	return structuredTurns(entries, ts)
}

// legacyTurns handles flat rows from before structured persistence: the
// message column is the user's text and response is the assistant's reply.
func legacyTurns(rec api.HistoryRecord, ts time.Time) []*model.Turn {
	var turns []*model.Turn
	if rec.Message != "" {
		turns = append(turns, model.NewUserHistoryTurn(rec.Message, ts))
	}
	if rec.Response != "" {
		turns = append(turns, model.NewAssistantHistoryTurn(rec.Response, ts))
	}
	return turns
}

// structuredTurns emits user/assistant entries as turns in order and pairs
// tool entries to assistant turns positionally: each assistant turn with N
// tool calls consumes the next N tool entries from this record's queue,
// zipping the i-th entry with the i-th call. Entry order is the only link
// between historical calls and their outputs, so it must be preserved.
func structuredTurns(entries []entry, recordTS time.Time) []*model.Turn {
	var turns []*model.Turn
	var toolQueue []entry

	for _, e := range entries {
		switch e.Role {
		case "user":
			turns = append(turns, model.NewUserHistoryTurn(e.Content, entryTime(e, recordTS)))
		case "assistant":
			turn := model.NewAssistantHistoryTurn(e.Content, entryTime(e, recordTS))
			turn.ToolCalls = e.ToolCalls
			turns = append(turns, turn)
		case "tool":
			toolQueue = append(toolQueue, e)
		default:
			util.Logf("history: skipping entry with unknown role %q", e.Role)
		}
	}

	for _, turn := range turns {
		if turn.Role != model.RoleAssistant || !turn.HasToolCalls() {
			continue
		}
		for _, call := range turn.ToolCalls {
			if len(toolQueue) == 0 {
				// More calls than persisted results; the remaining calls
				// stay result-less rather than failing the whole record.
				break
			}
			te := toolQueue[0]
			toolQueue = toolQueue[1:]
			turn.ToolResults = append(turn.ToolResults, pairResult(call, te))
		}
	}

	return turns
}

// pairResult builds the result for one historical tool call from its
// positionally matched entry.
func pairResult(call model.ToolCall, te entry) model.ToolResult {
	result := model.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    te.Content,
		Success:    true,
	}
	if call.Name == "run_command" {
		result.Command = call.ArgumentString("command")
	}
	return result
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// timestampLayouts covers the formats the server has emitted over time:
// RFC 3339 and Python isoformat with or without fractional seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func entryTime(e entry, fallback time.Time) time.Time {
	if e.Timestamp == "" {
		return fallback
	}
	if ts := parseTimestamp(e.Timestamp); !ts.IsZero() {
		return ts
	}
	return fallback
}
