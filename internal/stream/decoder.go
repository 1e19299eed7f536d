// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package stream decodes the server's conversation event stream.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// FRAME MARKERS
// =============================================================================

const (
	// dataPrefix marks a line as a data frame.
	dataPrefix = "data: "

	// doneSentinel is an optional end-of-stream marker some SSE servers
	// emit before closing the body. Treated the same as EOF.
	doneSentinel = "[DONE]"
)

// =============================================================================
// DECODER
// =============================================================================

// StepCallback is called for each decoded step, in arrival order.
type StepCallback func(step model.ConversationStep)

// Decoder turns one response body into an ordered, finite sequence of
// conversation steps. Partial lines spanning chunk boundaries are buffered
// by the underlying reader and only parsed once the full line is available.
type Decoder struct {
	reader *bufio.Reader
	body   io.Closer // closed by Close; nil when decoding a bare reader
	done   bool
	steps  int
}

// NewDecoder creates a decoder over an io.Reader.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{reader: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		d.body = c
	}
	return d
}

// Next returns the next decoded step. Returns io.EOF once the underlying
// transport signals end-of-stream; any other error is a transport failure.
// Malformed frames are skipped, not returned as errors.
func (d *Decoder) Next() (*model.ConversationStep, error) {
	if d.done {
		return nil, io.EOF
	}

	for {
		line, err := d.reader.ReadString('\n')
		if err != nil {
			// A final line without trailing newline is still a frame.
			if err == io.EOF {
				d.done = true
				if step := d.parseLine(line); step != nil {
					return step, nil
				}
				return nil, io.EOF
			}
			d.done = true
			return nil, err
		}

		if step := d.parseLine(line); step != nil {
			return step, nil
		}
		if d.done {
			return nil, io.EOF
		}
	}
}

// parseLine decodes one line into a step, or nil for non-data lines,
// the done sentinel, and malformed payloads.
func (d *Decoder) parseLine(line string) *model.ConversationStep {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataPrefix) {
		return nil
	}

	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "" {
		return nil
	}
	if payload == doneSentinel {
		d.done = true
		return nil
	}

	var step model.ConversationStep
	if err := json.Unmarshal([]byte(payload), &step); err != nil {
		util.Logf("stream: dropping malformed frame: %v", err)
		return nil
	}

	d.steps++
	return &step
}

// Drain reads the whole stream, invoking fn for each step, until
// end-of-stream, a transport error, or context cancellation. The callback
// runs synchronously; it must not block.
func (d *Decoder) Drain(ctx context.Context, fn StepCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		step, err := d.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		fn(*step)
	}
}

// Steps returns how many steps have been decoded so far.
func (d *Decoder) Steps() int {
	return d.steps
}

// Close releases the underlying response body, if any. Safe to call more
// than once.
func (d *Decoder) Close() error {
	d.done = true
	if d.body == nil {
		return nil
	}
	body := d.body
	d.body = nil
	return body.Close()
}
