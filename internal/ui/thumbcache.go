/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"reflect"

	"goslidewriter/internal/domain"
	"goslidewriter/internal/thumb"
)

// thumbCache keeps one rendered thumbnail per slide id and only re-renders
// slides whose content changed.
type thumbCache struct {
	w, h    int
	entries map[string]thumbEntry
	render  func(s domain.Slide, w, h int) image.Image
}

type thumbEntry struct {
	slide domain.Slide
	img   image.Image
}

func newThumbCache(w, h int) *thumbCache {
	return &thumbCache{
		w:       w,
		h:       h,
		entries: map[string]thumbEntry{},
		render:  func(s domain.Slide, w, h int) image.Image { return thumb.Render(s, w, h) },
	}
}

// Images returns a thumbnail for each slide in order. The slide whose id is
// frozen keeps its previous thumbnail if it has one (used while dragging).
func (c *thumbCache) Images(slides []domain.Slide, frozen string) []image.Image {
	out := make([]image.Image, 0, len(slides))
	seen := make(map[string]bool, len(slides))
	for _, s := range slides {
		seen[s.ID] = true
		e, ok := c.entries[s.ID]
		if ok && (s.ID == frozen || reflect.DeepEqual(e.slide, s)) {
			out = append(out, e.img)
			continue
		}
		e = thumbEntry{slide: s.Clone(), img: c.render(s, c.w, c.h)}
		c.entries[s.ID] = e
		out = append(out, e.img)
	}
	for id := range c.entries {
		if !seen[id] {
			delete(c.entries, id)
		}
	}
	return out
}
