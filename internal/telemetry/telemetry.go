/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in anonymous usage events and crash reports.
// Nothing is sent unless the user opted in and an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "goslidewriter/internal/log"
	"goslidewriter/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "GSW_TELEMETRY_OPT_IN"
	EnvEventsURL = "GSW_TELEMETRY_URL"
	EnvCrashURL  = "GSW_CRASH_UPLOAD_URL"
	EnvTimeoutMs = "GSW_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "GSW_TELEMETRY_DEBUG"
)

const (
	defaultTimeout   = 1500 * time.Millisecond
	defaultQueueSize = 64
)

// ErrDisabled is returned by UploadCrash when uploads are not configured.
var ErrDisabled = errors.New("telemetry disabled")

// Config controls where events go. The zero value sends nothing.
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
	QueueSize int
	Debug     bool
}

// FromEnv builds a Config from GSW_TELEMETRY_* variables. optIn is the value
// from the user config; the environment can override it.
func FromEnv(optIn bool) Config {
	cfg := Config{
		OptIn:     optIn,
		EventsURL: strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:  strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:   defaultTimeout,
		Debug:     os.Getenv(EnvDebug) != "",
	}
	if v, ok := os.LookupEnv(EnvOptIn); ok {
		cfg.OptIn = parseBool(v)
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvTimeoutMs))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client delivers events from a bounded queue on one background goroutine.
// Event never blocks; when the queue is full the event is dropped.
type Client struct {
	cfg     Config
	install string
	http    *http.Client
	log     *slog.Logger

	q       chan []byte
	pending sync.WaitGroup
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// New starts a client. Close must be called to stop its goroutine.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	c := &Client{
		cfg:     cfg,
		install: uuid.NewString(),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     applog.WithComponent("telemetry"),
		q:       make(chan []byte, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a named event with non-identifying properties.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{}
	for k, v := range props {
		payload[k] = v
	}
	payload["name"] = name
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["session"] = c.install
	payload["version"] = version.String()
	payload["os"] = runtime.GOOS
	payload["arch"] = runtime.GOARCH
	buf, err := json.Marshal(payload)
	if err != nil {
		c.log.Debug("dropping unencodable event", slog.String("name", name), slog.Any("err", err))
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	c.pending.Add(1)
	select {
	case c.q <- buf:
	default:
		c.pending.Done()
		if c.cfg.Debug {
			c.log.Debug("telemetry queue full, event dropped", slog.String("name", name))
		}
	}
}

// Flush waits until queued events are delivered or ctx ends.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	drained := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
	}
}

// Close stops the sender goroutine. Queued events that were not yet sent are
// dropped.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.done) })
	<-c.stopped
}

func (c *Client) loop() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			for {
				select {
				case <-c.q:
					c.pending.Done()
				default:
					return
				}
			}
		case buf := <-c.q:
			c.post(context.Background(), c.cfg.EventsURL, "application/json", buf)
			c.pending.Done()
		}
	}
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		if c.cfg.Debug {
			c.log.Debug("telemetry post failed", slog.String("url", url), slog.Any("err", err))
		}
		return fmt.Errorf("post: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UploadCrash posts a crash report synchronously. It returns ErrDisabled when
// the user did not opt in or no crash endpoint is set.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return ErrDisabled
	}
	if err := c.post(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		return fmt.Errorf("upload crash report: %w", err)
	}
	return nil
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// SetDefault installs c as the process-wide client used by crash recovery.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// Default returns the process-wide client, or nil.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultClient
}
