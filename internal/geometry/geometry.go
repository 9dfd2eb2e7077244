/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry maps pointer movement in container pixels onto element
// positions expressed as percentages of the slide. Everything here is pure.
package geometry

// Pt is a 2D point. Units depend on context (pixels or percent).
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt     { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt     { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Size() Size  { return Size{r.W, r.H} }
func (p Pt) Sub(o Pt) Pt   { return Pt{p.X - o.X, p.Y - o.Y} }
func (p Pt) Add(o Pt) Pt   { return Pt{p.X + o.X, p.Y + o.Y} }
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Contains is inclusive on all edges.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ToPercent converts a pixel point inside a container to percent space.
// A degenerate container axis maps to 0.
func ToPercent(p Pt, container Size) Pt {
	var out Pt
	if container.W > 0 {
		out.X = p.X / container.W * 100
	}
	if container.H > 0 {
		out.Y = p.Y / container.H * 100
	}
	return out
}

// ToPixels converts a percent-space rectangle to container pixels.
func ToPixels(r Rect, container Size) Rect {
	return Rect{
		X: r.X / 100 * container.W,
		Y: r.Y / 100 * container.H,
		W: r.W / 100 * container.W,
		H: r.H / 100 * container.H,
	}
}

// MaxOrigin returns the largest position an element of the given percent size
// may take so it still ends inside the slide. Elements larger than the slide
// get 0.
func MaxOrigin(elem Size) Pt {
	return Pt{X: max(0, 100-elem.W), Y: max(0, 100-elem.H)}
}

// ClampOrigin keeps an element origin inside [0, 100-size] on both axes.
func ClampOrigin(p Pt, elem Size) Pt {
	hi := MaxOrigin(elem)
	return Pt{X: Clamp(p.X, 0, hi.X), Y: Clamp(p.Y, 0, hi.Y)}
}
