//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based slide canvas. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"goslidewriter/internal/deck"
	"goslidewriter/internal/domain"
	"goslidewriter/internal/interact"
)

func almostEqual(a, b, eps float64) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func TestSlideRect_Letterbox(t *testing.T) {
	cases := []struct {
		size      fyne.Size
		pos       fyne.Position
		slideSize fyne.Size
	}{
		{fyne.NewSize(1600, 900), fyne.NewPos(160, 90), fyne.NewSize(1280, 720)},
		{fyne.NewSize(800, 800), fyne.NewPos(0, 175), fyne.NewSize(800, 450)},
		{fyne.NewSize(1600, 450), fyne.NewPos(400, 0), fyne.NewSize(800, 450)},
	}
	for _, tc := range cases {
		pos, sz := slideRect(tc.size)
		if pos != tc.pos || sz != tc.slideSize {
			t.Fatalf("slideRect(%v) = %v %v, want %v %v", tc.size, pos, sz, tc.pos, tc.slideSize)
		}
	}
}

func newTestCanvas(t *testing.T) (*SlideCanvas, *deck.Store, *interact.Controller) {
	t.Helper()
	test.NewTempApp(t)
	store := deck.New()
	err := store.Load(domain.Presentation{Slides: []domain.Slide{{
		ID:         "s1",
		Background: domain.Background{Kind: domain.BackgroundColor, Value: "#ffffff"},
		Elements: []domain.Element{
			{ID: "t1", Kind: domain.KindTitle, Content: "Hello slide", X: 10, Y: 10, Width: 30, Height: 10},
			{ID: "i1", Kind: domain.KindImage, Content: "https://example.test/a.png", X: 60, Y: 50, Width: 30, Height: 30},
		},
	}}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctrl := interact.New(store)
	sc := NewSlideCanvas(store, ctrl)
	sc.Resize(fyne.NewSize(1280, 720))
	return sc, store, ctrl
}

func press(sc *SlideCanvas, x, y float32) {
	sc.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func TestSlideCanvas_DragMovesElement(t *testing.T) {
	sc, store, ctrl := newTestCanvas(t)

	press(sc, 200, 100)
	if id, ok := ctrl.Selected(); !ok || id != "t1" {
		t.Fatalf("expected t1 selected, got %q", id)
	}
	sc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(328, 136)}, Dragged: fyne.NewDelta(128, 36)})
	sc.DragEnd()

	el, _ := store.Element(0, "t1")
	if !almostEqual(el.X, 20, 1e-9) || !almostEqual(el.Y, 15, 1e-9) {
		t.Fatalf("unexpected position after drag: (%v, %v)", el.X, el.Y)
	}
	if ctrl.State() != interact.Idle {
		t.Fatalf("drag should have ended")
	}
}

func TestSlideCanvas_DragClampsToSlide(t *testing.T) {
	sc, store, _ := newTestCanvas(t)
	press(sc, 200, 100)
	sc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5000, -5000)}})
	sc.MouseUp(&desktop.MouseEvent{})
	el, _ := store.Element(0, "t1")
	if el.X != 70 || el.Y != 0 {
		t.Fatalf("expected clamp to (70, 0), got (%v, %v)", el.X, el.Y)
	}
}

func TestSlideCanvas_ClickEmptyClearsSelection(t *testing.T) {
	sc, _, ctrl := newTestCanvas(t)
	press(sc, 200, 100)
	sc.MouseUp(&desktop.MouseEvent{})
	press(sc, 1200, 20)
	if _, ok := ctrl.Selected(); ok {
		t.Fatalf("click on empty canvas should clear the selection")
	}
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(900, 500)})
	if id, _ := ctrl.Selected(); id != "i1" {
		t.Fatalf("tap should select the image, got %q", id)
	}
}

func TestSlideCanvas_RendererObjects(t *testing.T) {
	sc, _, _ := newTestCanvas(t)
	r := sc.CreateRenderer().(*slideRenderer)
	r.Layout(fyne.NewSize(1280, 720))
	if len(r.els) != 2 {
		t.Fatalf("expected 2 element views, got %d", len(r.els))
	}
	if len(r.Objects()) < 5 {
		t.Fatalf("expected stage, background, text and frames, got %d objects", len(r.Objects()))
	}
}

func TestSlideCanvas_ImagesSurviveDrag(t *testing.T) {
	sc, _, _ := newTestCanvas(t)
	r := sc.CreateRenderer().(*slideRenderer)
	img := r.els[1].image
	if img == nil {
		t.Fatal("expected an image view for i1")
	}

	press(sc, 200, 100)
	for x := float32(210); x < 300; x += 10 {
		sc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, 100)}})
		r.Refresh()
		if r.els[1].image != img {
			t.Fatal("image view recreated during drag")
		}
	}
	sc.DragEnd()
}

func TestSlideCanvas_DragEndHook(t *testing.T) {
	sc, _, _ := newTestCanvas(t)
	ended := 0
	sc.OnDragEnd = func() { ended++ }

	press(sc, 200, 100)
	sc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(260, 120)}})
	sc.DragEnd()
	sc.MouseUp(&desktop.MouseEvent{})
	if ended != 1 {
		t.Fatalf("expected one drag-end callback, got %d", ended)
	}

	press(sc, 1200, 20)
	sc.MouseUp(&desktop.MouseEvent{})
	if ended != 1 {
		t.Fatalf("click on empty canvas should not report a drag end, got %d", ended)
	}
}

func TestSlideCanvas_SecondPressDuringDragKeepsSelection(t *testing.T) {
	sc, _, ctrl := newTestCanvas(t)
	press(sc, 200, 100)
	press(sc, 1200, 20)
	if id, ok := ctrl.Selected(); !ok || id != "t1" {
		t.Fatalf("press on empty canvas during a drag changed the selection to %q", id)
	}
	if !ctrl.Dragging() {
		t.Fatal("drag should still be active")
	}
	sc.DragEnd()
}

func TestWrapText(t *testing.T) {
	test.NewTempApp(t)
	lines := wrapText("one two three four five six", 60, 14, fyne.TextStyle{})
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", lines)
	}
	if got := wrapText("• a\n• b", 1000, 14, fyne.TextStyle{}); len(got) != 2 {
		t.Fatalf("newlines not kept: %q", got)
	}
}
