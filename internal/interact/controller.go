/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact implements pointer-driven manipulation of slide elements:
// single selection and a single global drag session (Idle -> Dragging -> Idle).
// It is toolkit-agnostic; the UI layer feeds it pointer positions in canvas
// pixels and the pixel size of the slide canvas.
package interact

import (
	"log/slog"
	"sync"

	"goslidewriter/internal/domain"
	"goslidewriter/internal/geometry"
	applog "goslidewriter/internal/log"
)

// State of the drag state machine.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Store is the part of the presentation store the controller needs.
// *deck.Store satisfies it.
type Store interface {
	Active() int
	Slide(i int) (domain.Slide, bool)
	SlideIndex(slideID string) (int, bool)
	Element(slideIndex int, elementID string) (domain.Element, bool)
	UpdateElement(slideIndex int, elementID string, patch domain.ElementPatch) domain.Presentation
}

// dragSnapshot is captured at pointer-down; every move is computed from it.
type dragSnapshot struct {
	elementID string
	slideID   string
	origin    geometry.Pt // pointer, canvas pixels
	start     geometry.Pt // element origin, percent
}

// Session is the editor's interaction state. The zero value is idle with
// nothing selected.
type Session struct {
	Selected string // empty when nothing is selected
	drag     *dragSnapshot
}

// State reports whether a drag is in progress.
func (s Session) State() State {
	if s.drag != nil {
		return Dragging
	}
	return Idle
}

// Controller routes pointer events into store updates.
type Controller struct {
	mu       sync.Mutex
	store    Store
	sess     Session
	onSelect []func(id string)
	log      *slog.Logger
}

// New returns an idle controller bound to store.
func New(store Store) *Controller {
	return &Controller{store: store, log: applog.WithComponent("interact")}
}

// OnSelectionChange registers a callback run after the selection changes.
func (c *Controller) OnSelectionChange(fn func(id string)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.onSelect = append(c.onSelect, fn)
	c.mu.Unlock()
}

// Session returns a copy of the current interaction state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// Selected returns the selected element id.
func (c *Controller) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Selected, c.sess.Selected != ""
}

// State returns the drag state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.State()
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.State() == Dragging }

// PointerDown starts a drag on elementID of the active slide with the pointer
// at p (canvas pixels). The selection is updated before the drag snapshot is
// taken so a click without movement still selects. While another drag is
// active the event is ignored. Returns whether a drag started.
func (c *Controller) PointerDown(elementID string, p geometry.Pt) bool {
	c.mu.Lock()
	if c.sess.drag != nil {
		c.mu.Unlock()
		c.log.Debug("pointer-down ignored during drag", slog.String("element", elementID))
		return false
	}
	slide, ok := c.store.Slide(c.store.Active())
	if !ok {
		c.mu.Unlock()
		return false
	}
	i := slide.IndexOf(elementID)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	el := slide.Elements[i]
	changed := c.sess.Selected != elementID
	c.sess.Selected = elementID
	c.sess.drag = &dragSnapshot{
		elementID: elementID,
		slideID:   slide.ID,
		origin:    p,
		start:     geometry.Pt{X: el.X, Y: el.Y},
	}
	c.mu.Unlock()
	if changed {
		c.fireSelect(elementID)
	}
	return true
}

// PointerMove moves the dragged element to follow the pointer. container is
// the current pixel size of the slide canvas. Returns whether the store was
// updated; moves while idle, or after the element or its slide disappeared,
// do nothing. The slide is tracked by id, so deleting other slides mid-drag
// does not redirect the move.
func (c *Controller) PointerMove(p geometry.Pt, container geometry.Size) bool {
	c.mu.Lock()
	d := c.sess.drag
	c.mu.Unlock()
	if d == nil {
		return false
	}
	idx, ok := c.store.SlideIndex(d.slideID)
	if !ok {
		return false
	}
	el, ok := c.store.Element(idx, d.elementID)
	if !ok {
		return false
	}
	next := geometry.Drag(d.origin, p, container, d.start, geometry.Size{W: el.Width, H: el.Height})
	if next.X == el.X && next.Y == el.Y {
		return false
	}
	c.store.UpdateElement(idx, d.elementID, domain.MoveTo(next.X, next.Y))
	return true
}

// PointerUp ends any drag session, wherever the pointer is.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	c.sess.drag = nil
	c.mu.Unlock()
}

// HitTest returns the top-most element of slide under the pointer.
func HitTest(slide domain.Slide, p geometry.Pt, container geometry.Size) (string, bool) {
	if container.Empty() {
		return "", false
	}
	pct := geometry.ToPercent(p, container)
	for i := len(slide.Elements) - 1; i >= 0; i-- {
		el := slide.Elements[i]
		if geometry.R(el.X, el.Y, el.Width, el.Height).Contains(pct) {
			return el.ID, true
		}
	}
	return "", false
}

// PointerDownAt hit-tests the active slide and either starts a drag on the
// element under the pointer or, on empty canvas, clears the selection.
func (c *Controller) PointerDownAt(slide domain.Slide, p geometry.Pt, container geometry.Size) (string, bool) {
	id, ok := HitTest(slide, p, container)
	if !ok {
		if c.State() == Idle {
			c.ClearSelection()
		}
		return "", false
	}
	return id, c.PointerDown(id, p)
}

// Select sets the selection without starting a drag.
func (c *Controller) Select(elementID string) {
	c.mu.Lock()
	changed := c.sess.Selected != elementID
	c.sess.Selected = elementID
	c.mu.Unlock()
	if changed {
		c.fireSelect(elementID)
	}
}

// ClearSelection deselects, e.g. on a click on empty canvas or a slide switch.
func (c *Controller) ClearSelection() { c.Select("") }

// Reset returns to the zero session (new deck loaded).
func (c *Controller) Reset() {
	c.mu.Lock()
	had := c.sess.Selected != ""
	c.sess = Session{}
	c.mu.Unlock()
	if had {
		c.fireSelect("")
	}
}

// EditText replaces the content of a TITLE or TEXT element on the active
// slide. Image elements and unknown ids are ignored.
func (c *Controller) EditText(elementID, content string) bool {
	slide := c.store.Active()
	el, ok := c.store.Element(slide, elementID)
	if !ok || !el.Kind.IsText() {
		return false
	}
	if el.Content == content {
		return false
	}
	c.store.UpdateElement(slide, elementID, domain.SetContent(content))
	return true
}

func (c *Controller) fireSelect(id string) {
	c.mu.Lock()
	fns := append([]func(string){}, c.onSelect...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}
