/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package generate turns a topic into a presentation using a generative
// model with structured JSON output. The result is validated, ids are made
// unique and image search queries are rewritten into fetchable URLs before
// the deck is handed to the editor.
package generate

import (
	"context"
	"errors"
	"fmt"

	"goslidewriter/internal/domain"
)

// Generator produces a presentation for a topic.
type Generator interface {
	Generate(ctx context.Context, topic string) (domain.Presentation, error)
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, topic string) (domain.Presentation, error)

func (f Func) Generate(ctx context.Context, topic string) (domain.Presentation, error) {
	return f(ctx, topic)
}

// Static returns a Generator that always yields a copy of p. Used for offline
// demos and tests.
func Static(p domain.Presentation) Generator {
	return Func(func(ctx context.Context, topic string) (domain.Presentation, error) {
		if err := ctx.Err(); err != nil {
			return domain.Presentation{}, &GenerationError{Op: OpRequest, Err: err}
		}
		return p.Clone(), nil
	})
}

var (
	ErrEmptyTopic    = errors.New("topic is empty")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrMissingAPIKey = errors.New("missing API key")
)

// Operation names used in GenerationError.
const (
	OpPrompt   = "prompt"
	OpRequest  = "request"
	OpDecode   = "decode"
	OpValidate = "validate"
)

// GenerationError is the single error kind surfaced by this package: network
// or model failures and malformed or empty responses.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generate %s: %v", e.Op, e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage is the text shown on the error screen.
func (e *GenerationError) UserMessage() string {
	switch e.Op {
	case OpPrompt:
		return "Please enter a topic for your presentation."
	case OpDecode, OpValidate:
		return "Failed to generate presentation. The AI returned an empty or invalid structure."
	default:
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return "The AI took too long to respond. Please try again."
		}
		return "Failed to generate presentation from Gemini API."
	}
}

// UserMessage extracts a display message from any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.UserMessage()
	}
	return "An unknown error occurred."
}
