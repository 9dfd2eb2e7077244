/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger: a readable console
// handler or JSON on stderr, an optional rotating JSON file, and context
// enrichment with the generation epoch.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"goslidewriter/internal/version"
)

// Options controls Init. FromEnv reads the same fields from:
//   - GSW_LOG_LEVEL=debug|info|warn|error
//   - GSW_LOG_FORMAT=console|json
//   - GSW_LOG_FILE=<path> (rotated JSON file in addition to the console)
//   - GSW_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
	// Console overrides os.Stderr.
	Console io.Writer
}

var (
	mu       sync.RWMutex
	current  *slog.Logger
	rotating *lj.Logger
	level    = new(slog.LevelVar)
)

// L returns the application logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog.Default. A previously opened
// log file is closed.
func Init(opts Options) {
	level.Set(parseLevel(opts.Level))
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var hs []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		hs = append(hs, slog.NewJSONHandler(console, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}))
	} else {
		hs = append(hs, newConsoleHandler(console, level, opts.AddSource))
	}

	var file *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		file = &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		hs = append(hs, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}))
	}

	var h slog.Handler = hs[0]
	if len(hs) > 1 {
		h = fanout(hs)
	}
	l := slog.New(withContext(h)).With(
		slog.String("app", "goslidewriter"),
		slog.String("ver", version.String()),
	)

	mu.Lock()
	old := rotating
	current, rotating = l, file
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(l)
}

// SetLevel changes the level of the running logger.
func SetLevel(s string) { level.Set(parseLevel(s)) }

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	f := rotating
	rotating = nil
	mu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// FromEnv builds Options from GSW_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("GSW_LOG_LEVEL", "info"),
		Format:    getenv("GSW_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("GSW_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("GSW_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation tags l with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type epochKey struct{}

// WithEpoch returns a context whose log records carry the generation epoch.
func WithEpoch(ctx context.Context, epoch uint64) context.Context {
	return context.WithValue(ctx, epochKey{}, epoch)
}

// EpochFrom returns the epoch stored by WithEpoch.
func EpochFrom(ctx context.Context) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	ep, ok := ctx.Value(epochKey{}).(uint64)
	return ep, ok
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
