/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"goslidewriter/internal/domain"
	applog "goslidewriter/internal/log"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Gemini-backed Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration // per request; 0 means no extra deadline
	Images  ImageResolver
}

// Client generates presentations with Gemini structured output.
type Client struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	images  ImageResolver
	log     *slog.Logger
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &GenerationError{Op: OpRequest, Err: ErrMissingAPIKey}
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, &GenerationError{Op: OpRequest, Err: err}
	}
	return newClient(gc.Models, opts), nil
}

func newClient(models contentGenerator, opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models:  models,
		model:   model,
		timeout: opts.Timeout,
		images:  opts.Images,
		log:     applog.WithComponent("generate"),
	}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate asks the model for a deck on topic and returns it with image
// queries resolved. All failures are *GenerationError.
func (c *Client) Generate(ctx context.Context, topic string) (domain.Presentation, error) {
	if strings.TrimSpace(topic) == "" {
		return domain.Presentation{}, &GenerationError{Op: OpPrompt, Err: ErrEmptyTopic}
	}
	l := applog.WithOperation(c.log, "generate").With(slog.String("model", c.model))
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}
	res, err := c.models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(topic)), cfg)
	if err != nil {
		l.ErrorContext(ctx, "model request failed", slog.Any("err", err))
		return domain.Presentation{}, &GenerationError{Op: OpRequest, Err: err}
	}
	if res == nil {
		return domain.Presentation{}, &GenerationError{Op: OpDecode, Err: ErrEmptyResponse}
	}
	p, err := Decode([]byte(res.Text()))
	if err != nil {
		l.WarnContext(ctx, "model response rejected", slog.Any("err", err))
		return domain.Presentation{}, err
	}
	p = c.images.Resolve(p)
	l.InfoContext(ctx, "presentation generated",
		slog.Int("slides", len(p.Slides)),
		slog.Duration("took", time.Since(start)))
	return p, nil
}
