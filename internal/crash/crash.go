/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic at an entrypoint into a logged error, a crash
// report file and, when the user opted in, an uploaded report.
package crash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "goslidewriter/internal/log"
	"goslidewriter/internal/telemetry"
	"goslidewriter/internal/version"
)

// exitFn is replaced in tests.
var exitFn = os.Exit

// Uploader sends a finished report. *telemetry.Client satisfies it.
type Uploader interface {
	UploadCrash(ctx context.Context, report []byte) error
}

// Options describes where reports go and what they contain.
type Options struct {
	// Dir receives crash-*.log files. Empty means os.TempDir().
	Dir string
	// State returns a short description of the editor state (flow state,
	// slide count, active slide). It must not include slide content.
	State func() string
	// Uploader overrides telemetry.Default().
	Uploader Uploader
	// Stderr overrides os.Stderr for the user-facing message.
	Stderr io.Writer
}

// Recover must be deferred directly:
//
//	defer crash.Recover(opts)
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	handle(opts, r, debug.Stack())
	exitFn(2)
}

func handle(opts Options, panicVal any, stack []byte) string {
	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", panicVal), slog.String("stack", string(stack)))

	report := buildReport(opts, panicVal, stack)
	path, err := writeReport(opts.Dir, report)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}

	up := opts.Uploader
	if up == nil {
		if c := telemetry.Default(); c != nil {
			up = c
		}
	}
	if up != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := up.UploadCrash(ctx, report); err != nil && !errors.Is(err, telemetry.ErrDisabled) {
			l.Warn("crash upload failed", slog.Any("err", err))
		}
		cancel()
	}

	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "A fatal error occurred. A crash report was saved to: %s\n", path)
	_, _ = fmt.Fprintf(w, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	return path
}

func buildReport(opts Options, panicVal any, stack []byte) []byte {
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "GoSlideWriter Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if opts.State != nil {
		_, _ = fmt.Fprintf(&buf, "State: %s\n", safeState(opts.State))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", stack)
	return buf.Bytes()
}

// safeState guards against the state callback panicking while we are
// already handling a panic.
func safeState(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("unavailable (%v)", r)
		}
	}()
	return fn()
}

func writeReport(dir string, report []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash dir: %w", err)
	}
	name := fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, report, 0o644); err != nil {
		return path, fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}
