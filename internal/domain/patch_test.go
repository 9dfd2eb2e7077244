/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "testing"

func TestPatchApplyOnlySetFields(t *testing.T) {
	orig := sampleDeck().Slides[0].Elements[0]
	got := MoveTo(20, 25).Apply(orig)
	if got.X != 20 || got.Y != 25 {
		t.Fatalf("position not applied: %+v", got)
	}
	if got.Width != orig.Width || got.Content != orig.Content || got.ID != orig.ID || got.Kind != orig.Kind {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if orig.X != 10 {
		t.Fatalf("Apply mutated its input")
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(ElementPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
	if SetContent("").Empty() {
		t.Fatalf("content patch should not be empty")
	}
}

func TestPatchTypography(t *testing.T) {
	fs := 2.5
	w := WeightBold
	a := AlignRight
	got := ElementPatch{FontSize: &fs, FontWeight: &w, TextAlign: &a}.Apply(Element{ID: "e"})
	fs = 9
	if got.EffectiveFontSize() != 2.5 || got.FontWeight != WeightBold || got.TextAlign != AlignRight {
		t.Fatalf("typography not applied: %+v", got)
	}
}
