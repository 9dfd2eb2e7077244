/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"goslidewriter/internal/config"
	"goslidewriter/internal/generate"
	applog "goslidewriter/internal/log"
	"goslidewriter/internal/session"
	"goslidewriter/internal/telemetry"
	"goslidewriter/internal/ui"
	"goslidewriter/internal/version"
)

// deps are the seams the commands use to reach the outside world.
type deps struct {
	loadConfig   func() (config.AppConfig, string, error)
	newGenerator func(ctx context.Context, cfg config.AppConfig, apiKey string) (generate.Generator, error)
	runUI        func(ui.Options) error
	saveKey      func(string) error
	deleteKey    func() error
}

func defaultDeps() deps {
	return deps{
		loadConfig:   config.Load,
		newGenerator: geminiGenerator,
		runUI:        ui.Run,
		saveKey:      config.SaveAPIKey,
		deleteKey:    config.DeleteAPIKey,
	}
}

func geminiGenerator(ctx context.Context, cfg config.AppConfig, apiKey string) (generate.Generator, error) {
	if apiKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	return generate.NewClient(ctx, generate.Options{
		APIKey:  apiKey,
		Model:   cfg.Generation.Model,
		Timeout: cfg.Generation.Timeout(),
		Images:  generate.ImageResolver{BaseURL: cfg.Generation.ImageBaseURL, Size: cfg.Generation.ImageSize},
	})
}

// app carries state shared by the subcommands after PersistentPreRunE.
type app struct {
	deps   deps
	cfg    config.AppConfig
	apiKey string
	tel    *telemetry.Client
	log    *slog.Logger

	logLevel string
}

func newRootCmd(d deps) *cobra.Command {
	a := &app{deps: d}
	root := &cobra.Command{
		Use:           "goslidewriter",
		Short:         "Generate and edit slide presentations with Gemini",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) { a.close(cmd.Context()) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUI(cmd.Context(), "")
		},
	}

	uiCmd := &cobra.Command{
		Use:   "ui [topic]",
		Short: "Launch the desktop editor (build with -tags fyne)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := ""
			if len(args) == 1 {
				topic = args[0]
			}
			return a.runUI(cmd.Context(), topic)
		},
	}

	var model string
	genCmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate a presentation and print it as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if model != "" {
				a.cfg.Generation.Model = model
			}
			return a.generate(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
	genCmd.Flags().StringVar(&model, "model", "", "Gemini model name (overrides config)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "GoSlideWriter %s\n", version.String())
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.AddCommand(uiCmd, genCmd, versionCmd, newConfigCmd(a))
	return root
}

func newConfigCmd(a *app) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration and the stored API key",
	}
	setKey := &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the Gemini API key in the OS keychain (reads stdin when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read key: %w", err)
				}
				key = line
			}
			if err := a.deps.saveKey(strings.TrimSpace(key)); err != nil {
				return fmt.Errorf("store key: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
			return err
		},
	}
	deleteKey := &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the Gemini API key from the OS keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.deps.deleteKey(); err != nil {
				return fmt.Errorf("delete key: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return err
		},
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if _, err := out.Write(data); err != nil {
				return err
			}
			for _, key := range overridableKeys {
				if env, ok := config.EnvOverrideFor(key); ok {
					_, _ = fmt.Fprintf(out, "# %s overridden by %s\n", key, env)
				}
			}
			keyState := "not set"
			if a.apiKey != "" {
				keyState = "set"
			}
			_, err = fmt.Fprintf(out, "# api key: %s\n", keyState)
			return err
		},
	}
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
	cfgCmd.AddCommand(setKey, deleteKey, show, path)
	return cfgCmd
}

var overridableKeys = []string{
	"generation.model", "generation.timeout_ms", "generation.image_base_url", "generation.image_size",
	"general.telemetry_opt_in", "general.theme",
	"logging.level", "logging.format", "logging.source", "logging.file",
}

func (a *app) init() error {
	cfg, key, err := a.deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg, a.apiKey = cfg, key
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	if a.logLevel != "" {
		applog.SetLevel(a.logLevel)
	}
	a.log = applog.WithComponent("cli")
	a.tel = telemetry.New(telemetry.FromEnv(cfg.General.TelemetryOptIn))
	telemetry.SetDefault(a.tel)
	a.log.Debug("config loaded", slog.String("model", cfg.Generation.Model), slog.Bool("api_key", key != ""))
	return nil
}

func (a *app) close(ctx context.Context) {
	defer func() { _ = applog.Close() }()
	if a.tel == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.tel.Flush(ctx)
	a.tel.Close()
	telemetry.SetDefault(nil)
}

func (a *app) editor(ctx context.Context) (*session.Editor, error) {
	gen, err := a.deps.newGenerator(ctx, a.cfg, a.apiKey)
	if err != nil {
		return nil, err
	}
	return session.New(gen, session.WithEvents(a.tel)), nil
}

func (a *app) runUI(ctx context.Context, topic string) error {
	ed, err := a.editor(ctx)
	if err != nil {
		return err
	}
	return a.deps.runUI(ui.Options{Editor: ed, Config: a.cfg, Topic: topic})
}

func (a *app) generate(ctx context.Context, out io.Writer, topic string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ed, err := a.editor(ctx)
	if err != nil {
		return err
	}
	if err := ed.Generate(ctx, topic); err != nil {
		a.log.Error("generation failed", slog.Any("err", err))
		return fmt.Errorf("%s: %w", generate.UserMessage(err), err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ed.Store().Presentation())
}
