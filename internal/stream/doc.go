// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package stream decodes the server's conversation event stream.
//
// The wire format is newline-delimited frames. A line starting with the
// "data: " marker carries one JSON-encoded model.ConversationStep; every
// other line (comments, keep-alives, blank lines) is ignored. A frame whose
// payload fails to parse is logged and dropped rather than aborting the
// stream: one malformed event must never kill a generation round.
//
// A Decoder is tied to a single transport response body and is consumed
// exactly once. It is not safe for concurrent use.
package stream
