//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"goslidewriter/internal/deck"
	"goslidewriter/internal/domain"
	"goslidewriter/internal/geometry"
	"goslidewriter/internal/interact"
	"goslidewriter/internal/thumb"
)

const (
	slideAspect   = float32(16) / 9
	maxSlideWidth = 1280
	// baseFontPx is one rem at full slide width.
	baseFontPx = 16
)

var (
	selectionColor = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	hoverColor     = color.NRGBA{R: 0x93, G: 0xc5, B: 0xfd, A: 0xa0}
	stageColor     = color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

// SlideCanvas shows the active slide and routes pointer input into the
// interaction controller.
type SlideCanvas struct {
	widget.BaseWidget

	store *deck.Store
	ctrl  *interact.Controller

	hovered string

	// OnDragEnd runs after a drag that was in progress ends.
	OnDragEnd func()
}

var (
	_ fyne.Tappable     = (*SlideCanvas)(nil)
	_ fyne.Draggable    = (*SlideCanvas)(nil)
	_ desktop.Mouseable = (*SlideCanvas)(nil)
	_ desktop.Hoverable = (*SlideCanvas)(nil)
)

func NewSlideCanvas(store *deck.Store, ctrl *interact.Controller) *SlideCanvas {
	sc := &SlideCanvas{store: store, ctrl: ctrl}
	sc.ExtendBaseWidget(sc)
	return sc
}

// slideRect is the 16:9 slide area inside size, centred and at most
// maxSlideWidth wide.
func slideRect(size fyne.Size) (fyne.Position, fyne.Size) {
	w := size.Width
	if w > maxSlideWidth {
		w = maxSlideWidth
	}
	h := w / slideAspect
	if h > size.Height {
		h = size.Height
		w = h * slideAspect
	}
	return fyne.NewPos((size.Width-w)/2, (size.Height-h)/2), fyne.NewSize(w, h)
}

// toSlide converts a widget position into slide-local pixels.
func (s *SlideCanvas) toSlide(pos fyne.Position) (geometry.Pt, geometry.Size) {
	origin, sz := slideRect(s.Size())
	return geometry.Pt{X: float64(pos.X - origin.X), Y: float64(pos.Y - origin.Y)},
		geometry.Size{W: float64(sz.Width), H: float64(sz.Height)}
}

func (s *SlideCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	slide, ok := s.store.ActiveSlide()
	if !ok {
		return
	}
	p, container := s.toSlide(e.Position)
	s.ctrl.PointerDownAt(slide, p, container)
	s.Refresh()
}

func (s *SlideCanvas) MouseUp(*desktop.MouseEvent) { s.endDrag() }

func (s *SlideCanvas) Dragged(e *fyne.DragEvent) {
	p, container := s.toSlide(e.Position)
	s.ctrl.PointerMove(p, container)
}

func (s *SlideCanvas) DragEnd() { s.endDrag() }

func (s *SlideCanvas) endDrag() {
	was := s.ctrl.Dragging()
	s.ctrl.PointerUp()
	if was && s.OnDragEnd != nil {
		s.OnDragEnd()
	}
}

// Tapped handles platforms without mouse events (touch).
func (s *SlideCanvas) Tapped(e *fyne.PointEvent) {
	if s.ctrl.State() == interact.Dragging {
		return
	}
	slide, ok := s.store.ActiveSlide()
	if !ok {
		return
	}
	p, container := s.toSlide(e.Position)
	if id, hit := interact.HitTest(slide, p, container); hit {
		s.ctrl.Select(id)
	} else {
		s.ctrl.ClearSelection()
	}
	s.Refresh()
}

func (s *SlideCanvas) MouseIn(e *desktop.MouseEvent) { s.MouseMoved(e) }

func (s *SlideCanvas) MouseMoved(e *desktop.MouseEvent) {
	slide, ok := s.store.ActiveSlide()
	if !ok {
		return
	}
	p, container := s.toSlide(e.Position)
	id, _ := interact.HitTest(slide, p, container)
	if id != s.hovered {
		s.hovered = id
		s.Refresh()
	}
}

func (s *SlideCanvas) MouseOut() {
	if s.hovered != "" {
		s.hovered = ""
		s.Refresh()
	}
}

func (s *SlideCanvas) MinSize() fyne.Size { return fyne.NewSize(480, 270) }

func (s *SlideCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &slideRenderer{sc: s, stage: canvas.NewRectangle(stageColor), bg: canvas.NewRectangle(color.White)}
	r.rebuild()
	r.Layout(s.Size())
	return r
}

type slideRenderer struct {
	sc      *SlideCanvas
	stage   *canvas.Rectangle
	bg      *canvas.Rectangle
	bgImage *canvas.Image
	bgURL   string
	showBg  bool
	objects []fyne.CanvasObject
	els     []elementView
	// element images by element id and URL; kept across rebuilds so a
	// drag does not refetch them
	images map[string]*canvas.Image
}

type elementView struct {
	el    domain.Element
	frame *canvas.Rectangle
	image *canvas.Image
}

func (r *slideRenderer) Destroy()                     {}
func (r *slideRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *slideRenderer) MinSize() fyne.Size           { return r.sc.MinSize() }

func (r *slideRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.sc.Size())
	canvas.Refresh(r.sc)
}

// rebuild recreates the element views from the active slide.
func (r *slideRenderer) rebuild() {
	r.els = r.els[:0]
	r.showBg = false
	slide, ok := r.sc.store.ActiveSlide()
	if !ok {
		r.bg.FillColor = stageColor
		return
	}
	r.bg.FillColor = thumb.Background(slide.Background)
	if slide.Background.Kind == domain.BackgroundImage {
		if r.bgImage == nil || r.bgURL != slide.Background.Value {
			r.bgImage = remoteImage(slide.Background.Value, canvas.ImageFillStretch)
			r.bgURL = slide.Background.Value
		}
		r.showBg = r.bgImage != nil
	}

	selected, _ := r.sc.ctrl.Selected()
	if r.images == nil {
		r.images = map[string]*canvas.Image{}
	}
	used := make(map[string]bool, len(slide.Elements))
	for _, el := range slide.Elements {
		v := elementView{el: el, frame: canvas.NewRectangle(color.Transparent)}
		v.frame.StrokeWidth = 2
		switch el.ID {
		case selected:
			v.frame.StrokeColor = selectionColor
		case r.sc.hovered:
			v.frame.StrokeColor = hoverColor
		default:
			v.frame.StrokeWidth = 0
		}
		if el.Kind == domain.KindImage {
			key := el.ID + "\x00" + el.Content
			img, ok := r.images[key]
			if !ok {
				img = remoteImage(el.Content, canvas.ImageFillContain)
				if img != nil {
					r.images[key] = img
				}
			}
			used[key] = true
			v.image = img
		}
		r.els = append(r.els, v)
	}
	for key := range r.images {
		if !used[key] {
			delete(r.images, key)
		}
	}
}

func remoteImage(raw string, fill canvas.ImageFill) *canvas.Image {
	u, err := storage.ParseURI(raw)
	if err != nil {
		return nil
	}
	img := canvas.NewImageFromURI(u)
	img.FillMode = fill
	return img
}

// Layout positions everything and rebuilds the object list; text lines
// depend on the box width so they are created here.
func (r *slideRenderer) Layout(size fyne.Size) {
	r.stage.Resize(size)
	r.stage.Move(fyne.NewPos(0, 0))
	origin, sz := slideRect(size)
	r.bg.Move(origin)
	r.bg.Resize(sz)

	objs := []fyne.CanvasObject{r.stage, r.bg}
	if r.showBg {
		r.bgImage.Move(origin)
		r.bgImage.Resize(sz)
		objs = append(objs, r.bgImage)
	}
	scale := sz.Width / maxSlideWidth
	fg := textColorFor(r.bg.FillColor)
	container := geometry.Size{W: float64(sz.Width), H: float64(sz.Height)}
	for _, v := range r.els {
		px := geometry.ToPixels(geometry.R(v.el.X, v.el.Y, v.el.Width, v.el.Height), container)
		pos := fyne.NewPos(origin.X+float32(px.X), origin.Y+float32(px.Y))
		box := fyne.NewSize(float32(px.W), float32(px.H))
		v.frame.Move(pos)
		v.frame.Resize(box)
		if v.image != nil {
			v.image.Move(pos)
			v.image.Resize(box)
			objs = append(objs, v.image)
		}
		if v.el.Kind.IsText() {
			for _, t := range layoutText(v.el, pos, box, scale, fg) {
				objs = append(objs, t)
			}
		}
		objs = append(objs, v.frame)
	}
	r.objects = objs
}

func textColorFor(bg color.Color) color.Color {
	rr, gg, bb, _ := bg.RGBA()
	lum := 299*(rr>>8) + 587*(gg>>8) + 114*(bb>>8)
	if lum > 128*1000 {
		return color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	}
	return color.White
}

// layoutText word-wraps the element content into canvas.Text lines inside box.
func layoutText(el domain.Element, pos fyne.Position, box fyne.Size, scale float32, fg color.Color) []*canvas.Text {
	size := float32(el.EffectiveFontSize()) * baseFontPx * scale
	if size < 6 {
		size = 6
	}
	style := fyne.TextStyle{Bold: el.EffectiveFontWeight() == domain.WeightBold}
	var align fyne.TextAlign
	switch el.EffectiveTextAlign() {
	case domain.AlignCenter:
		align = fyne.TextAlignCenter
	case domain.AlignRight:
		align = fyne.TextAlignTrailing
	default:
		align = fyne.TextAlignLeading
	}

	var out []*canvas.Text
	y := pos.Y
	for _, line := range wrapText(el.Content, box.Width, size, style) {
		lineH := fyne.MeasureText("Mg", size, style).Height
		if y+lineH > pos.Y+box.Height && len(out) > 0 {
			break
		}
		t := canvas.NewText(line, fg)
		t.TextSize = size
		t.TextStyle = style
		t.Alignment = align
		t.Move(fyne.NewPos(pos.X, y))
		t.Resize(fyne.NewSize(box.Width, lineH))
		out = append(out, t)
		y += lineH
	}
	return out
}

// wrapText breaks text on spaces so each line fits maxWidth at the given
// size. Newlines are kept.
func wrapText(text string, maxWidth, size float32, style fyne.TextStyle) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if maxWidth > 0 && fyne.MeasureText(next, size, style).Width > maxWidth {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = next
		}
		lines = append(lines, cur)
	}
	return lines
}
