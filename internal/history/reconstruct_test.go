// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/model"
)

func TestReconstruct_LegacyRecord(t *testing.T) {
	records := []api.HistoryRecord{
		{Message: "hi", Response: "hello", Timestamp: "2025-01-02T10:30:00"},
	}

	turns := Reconstruct(records)

	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.Equal(t, "hello", turns[1].Content)
	assert.Equal(t, 2025, turns[0].Timestamp.Year())
	assert.Equal(t, turns[0].Timestamp, turns[1].Timestamp)
}

func TestReconstruct_StructuredRecord(t *testing.T) {
	message := `[
		{"role":"user","content":"list files"},
		{"role":"assistant","content":"Running ls.","tool_calls":[
			{"id":"call_1","name":"run_command","arguments":{"command":"ls -la"}}
		]},
		{"role":"tool","content":"total 0\nREADME.md"},
		{"role":"assistant","content":"The directory contains README.md."}
	]`
	records := []api.HistoryRecord{
		{Message: message, Response: "summary", Timestamp: "2025-01-02T10:30:00"},
	}

	turns := Reconstruct(records)

	require.Len(t, turns, 3)
	assert.Equal(t, model.RoleUser, turns[0].Role)

	withCalls := turns[1]
	require.Len(t, withCalls.ToolCalls, 1)
	require.Len(t, withCalls.ToolResults, 1)
	result := withCalls.ToolResults[0]
	assert.Equal(t, "call_1", result.ToolCallID)
	assert.Equal(t, "run_command", result.Name)
	assert.Equal(t, "total 0\nREADME.md", result.Content)
	assert.Equal(t, "ls -la", result.Command)

	assert.Equal(t, "The directory contains README.md.", turns[2].Content)
	assert.Empty(t, turns[2].ToolResults)
}

// Two queued tool entries pair with two tool calls strictly by position,
// regardless of tool names.
func TestReconstruct_PositionalPairing(t *testing.T) {
	message := `[
		{"role":"assistant","content":"","tool_calls":[
			{"id":"a","name":"read_file","arguments":{"path":"x.txt"}},
			{"id":"b","name":"run_command","arguments":{"command":"wc -l x.txt"}}
		]},
		{"role":"tool","content":"first output"},
		{"role":"tool","content":"second output"}
	]`
	turns := Reconstruct([]api.HistoryRecord{{Message: message}})

	require.Len(t, turns, 1)
	require.Len(t, turns[0].ToolResults, 2)
	assert.Equal(t, "a", turns[0].ToolResults[0].ToolCallID)
	assert.Equal(t, "first output", turns[0].ToolResults[0].Content)
	assert.Equal(t, "b", turns[0].ToolResults[1].ToolCallID)
	assert.Equal(t, "second output", turns[0].ToolResults[1].Content)
	assert.Equal(t, "wc -l x.txt", turns[0].ToolResults[1].Command)
	assert.Empty(t, turns[0].ToolResults[0].Command)
}

// Two assistant turns in one record each consume their own calls' worth of
// tool entries from the shared front-of-queue.
func TestReconstruct_MultipleToolRounds(t *testing.T) {
	message := `[
		{"role":"assistant","content":"","tool_calls":[{"id":"a","name":"t1","arguments":{}}]},
		{"role":"tool","content":"r1"},
		{"role":"assistant","content":"","tool_calls":[{"id":"b","name":"t2","arguments":{}}]},
		{"role":"tool","content":"r2"}
	]`
	turns := Reconstruct([]api.HistoryRecord{{Message: message}})

	require.Len(t, turns, 2)
	require.Len(t, turns[0].ToolResults, 1)
	require.Len(t, turns[1].ToolResults, 1)
	assert.Equal(t, "r1", turns[0].ToolResults[0].Content)
	assert.Equal(t, "r2", turns[1].ToolResults[0].Content)
}

func TestReconstruct_MoreCallsThanEntries(t *testing.T) {
	message := `[
		{"role":"assistant","content":"","tool_calls":[
			{"id":"a","name":"t1","arguments":{}},
			{"id":"b","name":"t2","arguments":{}}
		]},
		{"role":"tool","content":"only one"}
	]`
	turns := Reconstruct([]api.HistoryRecord{{Message: message}})

	require.Len(t, turns, 1)
	require.Len(t, turns[0].ToolResults, 1)
	assert.Equal(t, "a", turns[0].ToolResults[0].ToolCallID)
}

func TestReconstruct_MalformedMessageFallsBackToLegacy(t *testing.T) {
	records := []api.HistoryRecord{
		{Message: `[{"role":`, Response: "reply", Timestamp: "2025-01-02T10:30:00"},
	}

	turns := Reconstruct(records)

	require.Len(t, turns, 2)
	assert.Equal(t, `[{"role":`, turns[0].Content)
	assert.Equal(t, "reply", turns[1].Content)
}

func TestReconstruct_PreservesRecordOrder(t *testing.T) {
	records := []api.HistoryRecord{
		{Message: "first", Response: "one"},
		{Message: "second", Response: "two"},
	}

	turns := Reconstruct(records)

	require.Len(t, turns, 4)
	assert.Equal(t, []string{"first", "one", "second", "two"}, []string{
		turns[0].Content, turns[1].Content, turns[2].Content, turns[3].Content,
	})
}

func TestReconstruct_Idempotent(t *testing.T) {
	records := []api.HistoryRecord{
		{Message: `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`},
		{Message: "plain", Response: "reply"},
	}

	first := Reconstruct(records)
	second := Reconstruct(records)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Role, second[i].Role)
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].ToolCalls, second[i].ToolCalls)
	}
}

func TestReconstruct_Empty(t *testing.T) {
	assert.Empty(t, Reconstruct(nil))
	assert.Empty(t, Reconstruct([]api.HistoryRecord{{Message: "", Response: ""}}))
}
