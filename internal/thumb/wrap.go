/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package thumb

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// face is the fixed 7x13 bitmap face used for all thumbnail text. Thumbnails
// are tiny, so the text only has to suggest the layout.
var face font.Face = basicfont.Face7x13

// lineHeight is the advance between baselines in base pixels.
const lineHeight = 13

// advance returns the width of s in pixels.
func advance(s string) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(s).Round()
}

// Wrap breaks text into lines no wider than maxWidth pixels. Explicit
// newlines are kept. A single word wider than maxWidth gets its own line.
func Wrap(text string, maxWidth int) []string {
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
			if maxWidth > 0 && advance(next) > maxWidth {
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
