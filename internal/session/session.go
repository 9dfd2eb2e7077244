/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session drives the editor flow: topic prompt, generation in the
// background, editing of the generated deck and the error screen. At most one
// generation is in flight; results that arrive after a reset are dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"goslidewriter/internal/deck"
	"goslidewriter/internal/domain"
	"goslidewriter/internal/generate"
	"goslidewriter/internal/interact"
	applog "goslidewriter/internal/log"
)

// State is the screen the editor shows.
type State int

const (
	StatePrompt State = iota
	StateLoading
	StateEditing
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Telemetry event names.
const (
	EventGenerateOK     = "generate_ok"
	EventGenerateFailed = "generate_failed"
	EventSlideAdded     = "slide_added"
	EventSlideDeleted   = "slide_deleted"
)

// ErrStale is returned by Generate when the flow was reset while the request
// was running. The result has been discarded.
var ErrStale = errors.New("generation result discarded after reset")

// Events receives anonymous usage events. *telemetry.Client satisfies it.
type Events interface {
	Event(name string, props map[string]any)
}

type nopEvents struct{}

func (nopEvents) Event(string, map[string]any) {}

// Snapshot is a read-only view of the flow.
type Snapshot struct {
	State   State
	Topic   string
	Message string // user-facing error text in StateFailed
	Epoch   uint64
}

// Option configures an Editor.
type Option func(*Editor)

// WithStore uses s instead of a fresh deck.Store.
func WithStore(s *deck.Store) Option { return func(e *Editor) { e.store = s } }

// WithEvents sends usage events to ev.
func WithEvents(ev Events) Option {
	return func(e *Editor) {
		if ev != nil {
			e.events = ev
		}
	}
}

// Editor owns the store, the interaction controller and the generation flow.
type Editor struct {
	// apply serializes store replacement against Reset; mu guards the fields.
	apply     sync.Mutex
	mu        sync.Mutex
	state     State
	topic     string
	msg       string
	lastErr   error
	epoch     uint64
	listeners []func(Snapshot)

	group  singleflight.Group
	gen    generate.Generator
	store  *deck.Store
	ctrl   *interact.Controller
	events Events
	log    *slog.Logger
}

// New creates an Editor in StatePrompt.
func New(gen generate.Generator, opts ...Option) *Editor {
	e := &Editor{gen: gen, events: nopEvents{}, log: applog.WithComponent("session")}
	for _, o := range opts {
		o(e)
	}
	if e.store == nil {
		e.store = deck.New()
	}
	e.ctrl = interact.New(e.store)
	return e
}

// Store returns the presentation store.
func (e *Editor) Store() *deck.Store { return e.store }

// Controller returns the interaction controller bound to the store.
func (e *Editor) Controller() *interact.Controller { return e.ctrl }

// OnStateChange registers fn to run after every state transition. fn runs
// without the editor lock held.
func (e *Editor) OnStateChange(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Snapshot returns the current flow state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() Snapshot {
	return Snapshot{State: e.state, Topic: e.topic, Message: e.msg, Epoch: e.epoch}
}

// State returns the current screen.
func (e *Editor) State() State { return e.Snapshot().State }

// Err returns the error behind StateFailed, if any.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Summary describes the flow for crash reports without any slide content.
func (e *Editor) Summary() string {
	snap := e.Snapshot()
	return fmt.Sprintf("%s epoch=%d slides=%d active=%d drag=%s",
		snap.State, snap.Epoch, e.store.Len(), e.store.Active(), e.ctrl.State())
}

// Generate requests a deck for topic and blocks until it is loaded or fails.
// A call made while another generation is in flight joins that request and
// returns its outcome; topic is then ignored.
func (e *Editor) Generate(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)

	e.apply.Lock()
	e.mu.Lock()
	starting := e.state != StateLoading
	if starting {
		if topic == "" {
			e.mu.Unlock()
			e.apply.Unlock()
			return &generate.GenerationError{Op: generate.OpPrompt, Err: generate.ErrEmptyTopic}
		}
		e.epoch++
		e.state = StateLoading
		e.topic = topic
		e.msg = ""
		e.lastErr = nil
	} else {
		topic = e.topic
	}
	epoch := e.epoch
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if starting {
		e.ctrl.Reset()
		e.store.Reset()
	}
	e.apply.Unlock()
	if starting {
		e.fire(snap)
	}

	ctx = applog.WithEpoch(ctx, epoch)
	start := time.Now()
	v, err, shared := e.group.Do(strconv.FormatUint(epoch, 10), func() (any, error) {
		e.log.InfoContext(ctx, "generation started", slog.String("topic", topic))
		return e.gen.Generate(ctx, topic)
	})
	return e.finish(ctx, epoch, v, err, shared, time.Since(start))
}

func (e *Editor) finish(ctx context.Context, epoch uint64, v any, err error, shared bool, took time.Duration) error {
	e.apply.Lock()
	e.mu.Lock()
	current, loading, applied := e.epoch == epoch, e.state == StateLoading, e.lastErr
	e.mu.Unlock()
	if !current {
		e.apply.Unlock()
		e.log.InfoContext(ctx, "discarding stale generation result")
		return ErrStale
	}
	if !loading {
		// A joined caller already applied this result.
		e.apply.Unlock()
		return applied
	}
	if err == nil {
		p, _ := v.(domain.Presentation)
		if lerr := e.store.Load(p); lerr != nil {
			err = &generate.GenerationError{Op: generate.OpValidate, Err: lerr}
		}
	}
	e.mu.Lock()
	if err != nil {
		e.state = StateFailed
		e.msg = generate.UserMessage(err)
		e.lastErr = err
	} else {
		e.state = StateEditing
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.apply.Unlock()

	if err != nil {
		e.log.WarnContext(ctx, "generation failed", slog.Any("err", err), slog.Bool("shared", shared))
		e.events.Event(EventGenerateFailed, map[string]any{"ms": took.Milliseconds()})
	} else {
		e.log.InfoContext(ctx, "generation finished", slog.Int("slides", e.store.Len()), slog.Duration("took", took))
		e.events.Event(EventGenerateOK, map[string]any{"ms": took.Milliseconds(), "slides": e.store.Len()})
	}
	e.fire(snap)
	return err
}

// Retry leaves the error screen and returns to the prompt.
func (e *Editor) Retry() {
	e.mu.Lock()
	if e.state != StateFailed {
		e.mu.Unlock()
		return
	}
	e.state = StatePrompt
	e.msg = ""
	e.lastErr = nil
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.fire(snap)
}

// Reset abandons the current deck or in-flight generation and returns to the
// prompt. A generation still running will have its result discarded.
func (e *Editor) Reset() {
	e.apply.Lock()
	e.mu.Lock()
	e.epoch++
	e.state = StatePrompt
	e.topic = ""
	e.msg = ""
	e.lastErr = nil
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.ctrl.Reset()
	e.store.Reset()
	e.apply.Unlock()
	e.fire(snap)
}

// AddSlide appends an empty slide and makes it active.
func (e *Editor) AddSlide() {
	if e.State() != StateEditing {
		return
	}
	e.ctrl.ClearSelection()
	before := e.store.Len()
	e.store.AddSlide()
	if e.store.Len() > before {
		e.events.Event(EventSlideAdded, map[string]any{"slides": e.store.Len()})
	}
}

// DeleteSlide removes the slide at index unless it is the last one.
func (e *Editor) DeleteSlide(index int) {
	if e.State() != StateEditing {
		return
	}
	before := e.store.Len()
	if index == e.store.Active() {
		e.ctrl.ClearSelection()
	}
	e.store.DeleteSlide(index)
	if e.store.Len() < before {
		e.events.Event(EventSlideDeleted, map[string]any{"slides": e.store.Len()})
	}
}

// DeleteActiveSlide removes the slide currently shown on the canvas.
func (e *Editor) DeleteActiveSlide() { e.DeleteSlide(e.store.Active()) }

// SelectSlide switches the canvas to slide i and clears the element selection.
func (e *Editor) SelectSlide(i int) {
	if e.State() != StateEditing {
		return
	}
	if e.store.Active() != i {
		e.ctrl.ClearSelection()
	}
	e.store.SelectSlide(i)
}

func (e *Editor) fire(s Snapshot) {
	e.mu.Lock()
	ls := append([]func(Snapshot){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}
