// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the ai-cli backend server.
//
// Two operations carry the conversation protocol: SendMessage starts a
// generation round and Resume continues one after tool approval; both return
// a stream.Decoder over the response body. Cancellation is cooperative via
// the request context: once the context is canceled the decoder's transport
// errors out and no further steps are delivered.
//
// The remaining methods (projects, history, health) are thin
// request/response wrappers behind the same base URL.
package api
