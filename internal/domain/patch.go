/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// ElementPatch is a partial element update. Nil fields are left untouched.
// ID and Kind are not patchable.
type ElementPatch struct {
	Content    *string
	X, Y       *float64
	Width      *float64
	Height     *float64
	FontSize   *float64
	FontWeight *FontWeight
	TextAlign  *TextAlign
}

// MoveTo builds a patch that only changes the position.
func MoveTo(x, y float64) ElementPatch { return ElementPatch{X: &x, Y: &y} }

// Resize builds a patch that only changes the size.
func Resize(w, h float64) ElementPatch { return ElementPatch{Width: &w, Height: &h} }

// SetContent builds a patch that only changes the content.
func SetContent(s string) ElementPatch { return ElementPatch{Content: &s} }

// Empty reports whether the patch changes nothing.
func (p ElementPatch) Empty() bool {
	return p.Content == nil && p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.FontSize == nil && p.FontWeight == nil && p.TextAlign == nil
}

// Apply returns a copy of e with the set fields replaced.
func (p ElementPatch) Apply(e Element) Element {
	out := e.Clone()
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.FontSize != nil {
		fs := *p.FontSize
		out.FontSize = &fs
	}
	if p.FontWeight != nil {
		out.FontWeight = *p.FontWeight
	}
	if p.TextAlign != nil {
		out.TextAlign = *p.TextAlign
	}
	return out
}
