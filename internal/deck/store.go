/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package deck holds the authoritative in-memory presentation and the active
// slide index. Every mutation builds a new Presentation value by copying the
// path it touches; previously returned values are never modified. Invalid
// ids or indices are absorbed as no-ops because they come from stale UI state
// (e.g. an event for an element whose slide was just deleted).
package deck

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"goslidewriter/internal/domain"
	applog "goslidewriter/internal/log"
)

// IDFunc produces unique slide ids.
type IDFunc func() string

// DefaultIDFunc returns ids of the form "slide-<uuid>".
func DefaultIDFunc() string { return "slide-" + uuid.NewString() }

// ChangeFunc is called after every effective mutation with a private copy of
// the presentation and the active slide index.
type ChangeFunc func(p domain.Presentation, active int)

// Store owns the current presentation. It is safe for concurrent use; UI
// callbacks and the generation worker may touch it from different goroutines.
type Store struct {
	mu        sync.Mutex
	pres      domain.Presentation
	loaded    bool
	active    int
	newID     IDFunc
	listeners []ChangeFunc
	log       *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides slide id generation (tests use deterministic ids).
func WithIDFunc(f IDFunc) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New returns an empty store. Nothing can be edited until Load is called.
func New(opts ...Option) *Store {
	s := &Store{newID: DefaultIDFunc, log: applog.WithComponent("deck")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnChange registers a listener. Listeners run synchronously after the lock
// is released, in registration order.
func (s *Store) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load replaces the presentation wholesale and makes the first slide active.
// Decks without slides are rejected so the one-slide invariant holds.
func (s *Store) Load(p domain.Presentation) error {
	if len(p.Slides) == 0 {
		return fmt.Errorf("load deck: %w", domain.ErrNoSlides)
	}
	s.mu.Lock()
	s.pres = p.Clone()
	s.loaded = true
	s.active = 0
	s.mu.Unlock()
	s.log.Info("deck loaded", slog.Int("slides", len(p.Slides)))
	s.notify()
	return nil
}

// Reset drops the current presentation.
func (s *Store) Reset() {
	s.mu.Lock()
	s.pres = domain.Presentation{}
	s.loaded = false
	s.active = 0
	s.mu.Unlock()
	s.notify()
}

// Loaded reports whether a presentation is present.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Presentation returns a copy of the current presentation.
func (s *Store) Presentation() domain.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres.Clone()
}

// Len returns the number of slides.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pres.Slides)
}

// Active returns the active slide index.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Slide returns a copy of the slide at index i.
func (s *Store) Slide(i int) (domain.Slide, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pres.Slides) {
		return domain.Slide{}, false
	}
	return s.pres.Slides[i].Clone(), true
}

// ActiveSlide returns a copy of the active slide.
func (s *Store) ActiveSlide() (domain.Slide, bool) {
	return s.Slide(s.Active())
}

// SlideIndex returns the current position of the slide with the given id.
func (s *Store) SlideIndex(slideID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sl := range s.pres.Slides {
		if sl.ID == slideID {
			return i, true
		}
	}
	return -1, false
}

// Element returns a copy of an element on the given slide.
func (s *Store) Element(slideIndex int, elementID string) (domain.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slideIndex < 0 || slideIndex >= len(s.pres.Slides) {
		return domain.Element{}, false
	}
	sl := s.pres.Slides[slideIndex]
	i := sl.IndexOf(elementID)
	if i < 0 {
		return domain.Element{}, false
	}
	return sl.Elements[i].Clone(), true
}

// SelectSlide makes slide i active, clamping out-of-range values.
func (s *Store) SelectSlide(i int) int {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return 0
	}
	next := clampIndex(i, len(s.pres.Slides))
	changed := next != s.active
	s.active = next
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return next
}

// UpdateElement applies patch to one element of one slide. Unknown slide
// index or element id leave the presentation unchanged.
func (s *Store) UpdateElement(slideIndex int, elementID string, patch domain.ElementPatch) domain.Presentation {
	s.mu.Lock()
	if slideIndex < 0 || slideIndex >= len(s.pres.Slides) {
		out := s.pres.Clone()
		s.mu.Unlock()
		s.log.Debug("update ignored: slide out of range", slog.Int("slide", slideIndex))
		return out
	}
	old := s.pres.Slides[slideIndex]
	idx := old.IndexOf(elementID)
	if idx < 0 || patch.Empty() {
		out := s.pres.Clone()
		s.mu.Unlock()
		s.log.Debug("update ignored", slog.String("element", elementID), slog.Bool("empty_patch", patch.Empty()))
		return out
	}

	elems := make([]domain.Element, len(old.Elements))
	copy(elems, old.Elements)
	elems[idx] = patch.Apply(old.Elements[idx])

	slides := make([]domain.Slide, len(s.pres.Slides))
	copy(slides, s.pres.Slides)
	slides[slideIndex] = domain.Slide{ID: old.ID, Background: old.Background, Elements: elems}

	s.pres = domain.Presentation{Slides: slides}
	out := s.pres.Clone()
	s.mu.Unlock()
	s.notify()
	return out
}

// AddSlide appends an empty white slide and makes it active.
func (s *Store) AddSlide() domain.Presentation {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return domain.Presentation{}
	}
	slides := make([]domain.Slide, len(s.pres.Slides), len(s.pres.Slides)+1)
	copy(slides, s.pres.Slides)
	ns := domain.Slide{ID: s.newID(), Elements: []domain.Element{}, Background: domain.DefaultBackground}
	slides = append(slides, ns)
	s.pres = domain.Presentation{Slides: slides}
	s.active = len(slides) - 1
	out := s.pres.Clone()
	s.mu.Unlock()
	s.log.Debug("slide added", slog.String("id", ns.ID), slog.Int("slides", len(out.Slides)))
	s.notify()
	return out
}

// DeleteSlide removes the slide at index. The last remaining slide cannot be
// deleted. When the removed slide is at or before the active one, the active
// index moves back by one so the user stays near where they were.
func (s *Store) DeleteSlide(index int) domain.Presentation {
	s.mu.Lock()
	n := len(s.pres.Slides)
	if n <= 1 || index < 0 || index >= n {
		out := s.pres.Clone()
		s.mu.Unlock()
		s.log.Debug("delete ignored", slog.Int("index", index), slog.Int("slides", n))
		return out
	}
	slides := make([]domain.Slide, 0, n-1)
	slides = append(slides, s.pres.Slides[:index]...)
	slides = append(slides, s.pres.Slides[index+1:]...)
	s.pres = domain.Presentation{Slides: slides}
	if s.active >= index {
		s.active = max(0, s.active-1)
	}
	s.active = clampIndex(s.active, len(slides))
	out := s.pres.Clone()
	s.mu.Unlock()
	s.notify()
	return out
}

func (s *Store) notify() {
	s.mu.Lock()
	ls := append([]ChangeFunc(nil), s.listeners...)
	p := s.pres.Clone()
	a := s.active
	s.mu.Unlock()
	for _, fn := range ls {
		fn(p.Clone(), a)
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
