/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"goslidewriter/internal/config"
	"goslidewriter/internal/domain"
	"goslidewriter/internal/generate"
	"goslidewriter/internal/ui"
)

func testDeps(t *testing.T) (deps, *string) {
	t.Helper()
	var stored string
	deck := domain.Presentation{Slides: []domain.Slide{{
		ID:         "s1",
		Background: domain.DefaultBackground,
		Elements:   []domain.Element{{ID: "t", Kind: domain.KindTitle, Content: "Hi", X: 1, Y: 1, Width: 10, Height: 10}},
	}}}
	return deps{
		loadConfig: func() (config.AppConfig, string, error) { return config.Defaults(), "test-key", nil },
		newGenerator: func(_ context.Context, cfg config.AppConfig, key string) (generate.Generator, error) {
			if key == "" {
				return nil, config.ErrMissingAPIKey
			}
			return generate.Static(deck), nil
		},
		runUI:     func(ui.Options) error { return nil },
		saveKey:   func(k string) error { stored = k; return nil },
		deleteKey: func() error { stored = ""; return nil },
	}, &stored
}

func run(t *testing.T, d deps, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(d)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	d, _ := testDeps(t)
	out, err := run(t, d, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "GoSlideWriter")
}

func TestGenerateCommandPrintsJSON(t *testing.T) {
	d, _ := testDeps(t)
	out, err := run(t, d, "", "generate", "space", "travel")
	require.NoError(t, err)
	var p domain.Presentation
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Len(t, p.Slides, 1)
	require.Equal(t, "Hi", p.Slides[0].Elements[0].Content)
}

func TestGenerateCommandPassesModelAndTopic(t *testing.T) {
	d, _ := testDeps(t)
	var gotModel, gotTopic string
	d.newGenerator = func(_ context.Context, cfg config.AppConfig, _ string) (generate.Generator, error) {
		gotModel = cfg.Generation.Model
		return generate.Func(func(_ context.Context, topic string) (domain.Presentation, error) {
			gotTopic = topic
			return domain.Presentation{}, &generate.GenerationError{Op: generate.OpRequest, Err: errors.New("quota")}
		}), nil
	}
	_, err := run(t, d, "", "generate", "--model", "gemini-2.5-pro", "solar", "power")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to generate presentation from Gemini API.")
	require.Equal(t, "gemini-2.5-pro", gotModel)
	require.Equal(t, "solar power", gotTopic)
}

func TestGenerateWithoutKeyFails(t *testing.T) {
	d, _ := testDeps(t)
	d.loadConfig = func() (config.AppConfig, string, error) { return config.Defaults(), "", nil }
	_, err := run(t, d, "", "generate", "x")
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestUICommandPassesTopic(t *testing.T) {
	d, _ := testDeps(t)
	var got ui.Options
	d.runUI = func(o ui.Options) error { got = o; return nil }
	_, err := run(t, d, "", "ui", "oceans")
	require.NoError(t, err)
	require.Equal(t, "oceans", got.Topic)
	require.NotNil(t, got.Editor)

	_, err = run(t, d, "")
	require.NoError(t, err, "root command launches the UI")
}

func TestConfigKeyCommands(t *testing.T) {
	d, stored := testDeps(t)
	out, err := run(t, d, "", "config", "set-key", "abc123")
	require.NoError(t, err)
	require.Contains(t, out, "stored")
	require.Equal(t, "abc123", *stored)

	_, err = run(t, d, "  from-stdin \n", "config", "set-key")
	require.NoError(t, err)
	require.Equal(t, "from-stdin", *stored)

	_, err = run(t, d, "", "config", "delete-key")
	require.NoError(t, err)
	require.Empty(t, *stored)
}

func TestConfigPathCommand(t *testing.T) {
	d, _ := testDeps(t)
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	out, err := run(t, d, "", "config", "path")
	require.NoError(t, err)
	require.Contains(t, out, dir)
}

func TestConfigShowMarksOverrides(t *testing.T) {
	d, _ := testDeps(t)
	t.Setenv(config.EnvModel, "gemini-2.5-pro")
	d.loadConfig = func() (config.AppConfig, string, error) {
		cfg := config.Defaults()
		cfg.Generation.Model = "gemini-2.5-pro"
		return cfg, "", nil
	}
	out, err := run(t, d, "", "--log-level", "error", "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "model: gemini-2.5-pro")
	require.Contains(t, out, "# generation.model overridden by GSW_MODEL")
	require.Contains(t, out, "# api key: not set")
}
