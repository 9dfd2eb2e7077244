/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package thumb

import (
	"image/color"
	"testing"

	"goslidewriter/internal/domain"
)

func TestWrap(t *testing.T) {
	lines := Wrap("Hello world from Go", 50)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %q", lines)
	}
	for _, l := range lines {
		if advance(l) > 50 && len(l) > 0 && containsSpace(l) {
			t.Fatalf("line %q wider than box", l)
		}
	}
	if got := Wrap("• one\n• two", 1000); len(got) != 2 || got[1] != "• two" {
		t.Fatalf("newlines not kept: %q", got)
	}
	if got := Wrap("", 100); len(got) != 1 || got[0] != "" {
		t.Fatalf("empty text: %q", got)
	}
	if got := Wrap("supercalifragilistic", 10); len(got) != 1 {
		t.Fatalf("long word should stay on one line: %q", got)
	}
}

func containsSpace(s string) bool {
	for _, r := range s {
		if r == ' ' {
			return true
		}
	}
	return false
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#ffffff": {R: 255, G: 255, B: 255, A: 255},
		"#0b1e3f": {R: 0x0b, G: 0x1e, B: 0x3f, A: 255},
		"#f00":    {R: 255, A: 255},
		" 00ff00": {G: 255, A: 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseColor("rebeccapurple"); err == nil {
		t.Fatalf("expected error for named colour")
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("expected error for bad hex")
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func TestRenderSizeAndBackground(t *testing.T) {
	s := domain.Slide{
		ID:         "s",
		Background: domain.Background{Kind: domain.BackgroundColor, Value: "#0b1e3f"},
		Elements: []domain.Element{
			{ID: "t", Kind: domain.KindTitle, Content: "Title", X: 40, Y: 40, Width: 50, Height: 20, TextAlign: domain.AlignCenter, FontWeight: domain.WeightBold},
			{ID: "i", Kind: domain.KindImage, Content: "https://example.test/x.png", X: 60, Y: 70, Width: 30, Height: 20},
		},
	}
	for _, size := range [][2]int{{160, 90}, {BaseWidth, BaseHeight}, {640, 360}} {
		img := Render(s, size[0], size[1])
		b := img.Bounds()
		if b.Dx() != size[0] || b.Dy() != size[1] {
			t.Fatalf("size = %v, want %v", b.Size(), size)
		}
		c := img.RGBAAt(1, 1)
		if !near(c.R, 0x0b) || !near(c.G, 0x1e) || !near(c.B, 0x3f) {
			t.Fatalf("corner colour = %v", c)
		}
	}
	img := Render(s, 0, 0)
	if img.Bounds().Dx() != BaseWidth {
		t.Fatalf("non-positive size should fall back to base")
	}
	if got := img.RGBAAt(int(0.75*BaseWidth), int(0.8*BaseHeight)); got != imagePlaceholder {
		t.Fatalf("image placeholder not drawn: %v", got)
	}
}

func TestRenderImageBackgroundAndText(t *testing.T) {
	s := domain.Slide{
		Background: domain.Background{Kind: domain.BackgroundImage, Value: "https://example.test/bg.png"},
		Elements: []domain.Element{
			{ID: "t", Kind: domain.KindText, Content: "MMMM MMMM", X: 0, Y: 0, Width: 50, Height: 20},
		},
	}
	img := Render(s, BaseWidth, BaseHeight)
	if got := img.RGBAAt(BaseWidth-1, BaseHeight-1); got != imageBackground {
		t.Fatalf("image background = %v", got)
	}
	found := false
	for y := 0; y < 36 && !found; y++ {
		for x := 0; x < 160; x++ {
			if img.RGBAAt(x, y) != imageBackground {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("no text pixels drawn")
	}
}

func TestTextColorContrast(t *testing.T) {
	if textColor(color.RGBA{R: 255, G: 255, B: 255, A: 255}) != (color.RGBA{A: 255}) {
		t.Fatalf("expected black text on white")
	}
	if textColor(imageBackground) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected white text on dark")
	}
}
