/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package thumb rasterizes slides into small preview images for the slide
// list. Text is drawn with a bitmap face at a fixed base resolution and the
// result is scaled to the requested size.
package thumb

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"goslidewriter/internal/domain"
	"goslidewriter/internal/geometry"
)

// Base canvas size in pixels; 16:9.
const (
	BaseWidth  = 320
	BaseHeight = 180
)

var (
	imageBackground  = color.RGBA{R: 0x33, G: 0x3a, B: 0x48, A: 0xff}
	imagePlaceholder = color.RGBA{R: 0x9a, G: 0xa4, B: 0xb1, A: 0xff}
)

// ParseColor parses #rgb and #rrggbb colours. Anything else yields white and
// an error.
func ParseColor(s string) (color.RGBA, error) {
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return white, fmt.Errorf("unsupported colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return white, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Background returns the fill colour used for a slide background. Image
// backgrounds are not fetched and render as a dark neutral.
func Background(b domain.Background) color.RGBA {
	if b.Kind == domain.BackgroundImage {
		return imageBackground
	}
	c, _ := ParseColor(b.Value)
	return c
}

// textColor picks black or white for contrast against bg.
func textColor(bg color.RGBA) color.RGBA {
	lum := 299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)
	if lum > 128*1000 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// Render draws slide at width x height pixels. Non-positive sizes fall back
// to the base size.
func Render(slide domain.Slide, width, height int) *image.RGBA {
	base := image.NewRGBA(image.Rect(0, 0, BaseWidth, BaseHeight))
	bg := Background(slide.Background)
	xdraw.Draw(base, base.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	container := geometry.Size{W: BaseWidth, H: BaseHeight}
	fg := textColor(bg)
	for _, el := range slide.Elements {
		r := elementRect(el, container)
		if r.Empty() {
			continue
		}
		switch el.Kind {
		case domain.KindImage:
			xdraw.Draw(base, r, image.NewUniform(imagePlaceholder), image.Point{}, xdraw.Src)
		default:
			drawText(base, r, el, fg)
		}
	}

	if width <= 0 || height <= 0 || (width == BaseWidth && height == BaseHeight) {
		return base
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	return dst
}

func elementRect(el domain.Element, container geometry.Size) image.Rectangle {
	px := geometry.ToPixels(geometry.R(el.X, el.Y, el.Width, el.Height), container)
	r := image.Rect(int(px.X), int(px.Y), int(px.X+px.W), int(px.Y+px.H))
	return r.Intersect(image.Rect(0, 0, BaseWidth, BaseHeight))
}

func drawText(dst *image.RGBA, r image.Rectangle, el domain.Element, fg color.RGBA) {
	clip := dst.SubImage(r).(*image.RGBA)
	d := &font.Drawer{Dst: clip, Src: image.NewUniform(fg), Face: face}
	ascent := face.Metrics().Ascent.Round()
	y := r.Min.Y + ascent
	for _, line := range Wrap(el.Content, r.Dx()) {
		if y-ascent >= r.Max.Y {
			break
		}
		x := r.Min.X
		switch el.EffectiveTextAlign() {
		case domain.AlignCenter:
			x += (r.Dx() - advance(line)) / 2
		case domain.AlignRight:
			x += r.Dx() - advance(line)
		}
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		if el.EffectiveFontWeight() == domain.WeightBold {
			// fake bold by overstriking one pixel to the right
			d.Dot = fixed.P(x+1, y)
			d.DrawString(line)
		}
		y += lineHeight
	}
}
