// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the ai-cli backend server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Andriykkk/ai-cli/internal/stream"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeServerDown
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeBadRequest
	ErrTypeInvalidResponse
)

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrServerDown = &ClientError{Type: ErrTypeServerDown, Message: "ai-cli server is not reachable"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNotFound   = &ClientError{Type: ErrTypeNotFound, Message: "resource not found"}
)

// IsServerDown checks whether an error means the backend is unreachable.
func IsServerDown(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeServerDown
	}
	return errors.Is(err, ErrServerDown)
}

// IsTimeout checks whether an error is a timeout.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsNotFound checks whether an error is a missing-resource error.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the server base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the ai-cli backend.
// Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// streamClient has no client-side timeout: a generation round may run
	// for minutes, and cancellation is handled via the request context.
	streamClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// CONVERSATION STREAMING
// =============================================================================

// SendMessage starts a generation round for a project and returns the step
// stream. The caller owns the decoder and must Close it; canceling ctx
// aborts the stream and stops step delivery.
func (c *Client) SendMessage(ctx context.Context, projectID int, message string) (*stream.Decoder, error) {
	return c.openStream(ctx, "/chat/stream", sendRequest{
		Message:   message,
		ProjectID: projectID,
	})
}

// Resume submits tool decisions for a paused round and returns the
// continuation step stream.
func (c *Client) Resume(ctx context.Context, sessionID string, projectID int, approved, denied []string) (*stream.Decoder, error) {
	if approved == nil {
		approved = []string{}
	}
	if denied == nil {
		denied = []string{}
	}
	return c.openStream(ctx, "/chat/continue", resumeRequest{
		SessionID:     sessionID,
		ProjectID:     projectID,
		ApprovedTools: approved,
		DeniedTools:   denied,
	})
}

// openStream issues a streaming POST and wraps the body in a decoder.
func (c *Client) openStream(ctx context.Context, path string, payload interface{}) (*stream.Decoder, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, ErrServerDown
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.statusError(resp, "stream request failed")
	}

	return stream.NewDecoder(resp.Body), nil
}

// =============================================================================
// CHAT HISTORY
// =============================================================================

// History fetches persisted conversation records for a project, oldest
// first. limit <= 0 fetches everything.
func (c *Client) History(ctx context.Context, projectID, limit int) ([]HistoryRecord, error) {
	path := "/projects/" + strconv.Itoa(projectID) + "/chat/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var result historyResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// ClearHistory deletes all persisted records for a project and returns how
// many were removed.
func (c *Client) ClearHistory(ctx context.Context, projectID int) (int, error) {
	path := "/projects/" + strconv.Itoa(projectID) + "/chat/history"

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+path, nil)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.statusError(resp, "clear history failed")
	}

	var result clearHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.DeletedCount, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// ListProjects returns all projects, most recently created first.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject registers a new project on the server.
func (c *Client) CreateProject(ctx context.Context, name, path, description string) (*Project, error) {
	var project Project
	err := c.postJSON(ctx, "/projects", projectRequest{
		Name:        name,
		Path:        path,
		Description: description,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject changes a project's name, path, or description. Empty
// fields are left untouched on the server.
func (c *Client) UpdateProject(ctx context.Context, projectID int, name, path, description string) (*Project, error) {
	var project Project
	err := c.putJSON(ctx, "/projects/"+strconv.Itoa(projectID), projectRequest{
		Name:        name,
		Path:        path,
		Description: description,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project and its chat history.
func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	path := "/projects/" + strconv.Itoa(projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, "delete project failed")
	}
	return nil
}

// UseProject marks a project as used, updating its last_used timestamp.
func (c *Client) UseProject(ctx context.Context, projectID int) error {
	path := "/projects/" + strconv.Itoa(projectID) + "/use"
	return c.postJSON(ctx, path, struct{}{}, nil)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health verifies the backend is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	var result healthResponse
	if err := c.getJSON(ctx, "/health", &result); err != nil {
		return err
	}
	if result.Status != "ok" {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "server unhealthy: " + result.Status}
	}
	return nil
}

// =============================================================================
// HTTP HELPERS
// =============================================================================

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, "request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// postJSON issues a POST with a JSON body; out may be nil when the response
// payload is irrelevant.
func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

// putJSON issues a PUT with a JSON body.
func (c *Client) putJSON(ctx context.Context, path string, payload, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, "request failed")
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// transportError maps a round-trip failure onto the error taxonomy.
func (c *Client) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeUnknown, Message: "request canceled", Cause: err}
	}
	return ErrServerDown
}

// statusError builds an error from a non-200 response, preferring the
// server's own detail message when it parses.
func (c *Client) statusError(resp *http.Response, fallback string) error {
	errType := ErrTypeInvalidResponse
	switch resp.StatusCode {
	case http.StatusNotFound:
		errType = ErrTypeNotFound
	case http.StatusBadRequest:
		errType = ErrTypeBadRequest
	}

	var detail serverError
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
		return &ClientError{Type: errType, Message: detail.Detail}
	}
	return &ClientError{Type: errType, Message: fallback + ": " + resp.Status}
}
