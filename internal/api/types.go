// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the ai-cli backend server.
package api

// =============================================================================
// REQUEST TYPES
// =============================================================================

// sendRequest starts a generation round.
type sendRequest struct {
	Message   string `json:"message"`
	ProjectID int    `json:"project_id"`
}

// resumeRequest submits tool decisions for a paused round.
type resumeRequest struct {
	SessionID     string   `json:"session_id"`
	ProjectID     int      `json:"project_id"`
	ApprovedTools []string `json:"approved_tools"`
	DeniedTools   []string `json:"denied_tools"`
}

// projectRequest creates or updates a project.
type projectRequest struct {
	Name        string `json:"name,omitempty"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Project is a server-side project record.
type Project struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	Description   string `json:"description"`
	ModelProvider string `json:"model_provider"`
	ModelName     string `json:"model_name"`
	CreatedAt     string `json:"created_at"`
	LastUsed      string `json:"last_used,omitempty"`
	MemoryEnabled bool   `json:"memory_enabled"`
	ToolsEnabled  bool   `json:"tools_enabled"`
}

// HistoryRecord is one persisted conversation round as the server stores
// it. Message holds either plain user text (legacy records) or a
// JSON-encoded array of role-tagged entries for rounds that used tools;
// Response holds the assistant's reply or a human-readable summary.
type HistoryRecord struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// historyResponse wraps the history-fetch payload.
type historyResponse struct {
	Messages   []HistoryRecord `json:"messages"`
	TotalCount int             `json:"total_count"`
	ProjectID  int             `json:"project_id"`
}

// clearHistoryResponse wraps the clear-history payload.
type clearHistoryResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
	ProjectID    int    `json:"project_id"`
}

// healthResponse wraps the health-check payload.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// serverError is the error envelope FastAPI-style backends return.
type serverError struct {
	Detail string `json:"detail"`
}
