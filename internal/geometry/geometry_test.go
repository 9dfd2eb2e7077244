/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math/rand"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := R(10, 20, 30, 10)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{40, 30}) {
		t.Fatalf("expected edge points to be contained")
	}
	if r.Contains(Pt{41, 25}) {
		t.Fatalf("point outside reported as contained")
	}
	if r.Max() != (Pt{40, 30}) {
		t.Fatalf("unexpected max: %+v", r.Max())
	}
}

func TestToPercentAndPixels(t *testing.T) {
	c := Size{W: 1000, H: 500}
	if got := ToPercent(Pt{200, 25}, c); got != (Pt{20, 5}) {
		t.Fatalf("ToPercent = %+v", got)
	}
	if got := ToPixels(R(10, 10, 30, 10), c); got != R(100, 50, 300, 50) {
		t.Fatalf("ToPixels = %+v", got)
	}
	if got := ToPercent(Pt{5, 5}, Size{}); got != (Pt{}) {
		t.Fatalf("degenerate container should map to zero, got %+v", got)
	}
}

func TestDragScenario(t *testing.T) {
	// 1000x500 container, +20% / +5% is 200px / 25px.
	got := Drag(Pt{300, 100}, Pt{500, 125}, Size{1000, 500}, Pt{10, 10}, Size{30, 10})
	if got != (Pt{30, 15}) {
		t.Fatalf("Drag = %+v, want {30 15}", got)
	}
}

func TestDragZeroDeltaIsIdentity(t *testing.T) {
	start := Pt{12.345, 67.89}
	got := Drag(Pt{42, 42}, Pt{42, 42}, Size{800, 450}, start, Size{20, 20})
	if got != start {
		t.Fatalf("zero delta moved element: %+v", got)
	}
}

func TestDragClampsToBounds(t *testing.T) {
	c := Size{1000, 500}
	got := Drag(Pt{0, 0}, Pt{5000, 5000}, c, Pt{10, 10}, Size{30, 10})
	if got != (Pt{70, 90}) {
		t.Fatalf("expected clamp to far edge, got %+v", got)
	}
	got = Drag(Pt{0, 0}, Pt{-5000, -5000}, c, Pt{10, 10}, Size{30, 10})
	if got != (Pt{0, 0}) {
		t.Fatalf("expected clamp to origin, got %+v", got)
	}
}

func TestDragOversizedElementClampsToZero(t *testing.T) {
	got := Drag(Pt{0, 0}, Pt{300, 300}, Size{1000, 500}, Pt{5, 5}, Size{120, 150})
	if got != (Pt{0, 0}) {
		t.Fatalf("oversized element should pin to 0, got %+v", got)
	}
}

func TestDragNeverLeavesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		elem := Size{rng.Float64() * 100, rng.Float64() * 100}
		start := Pt{rng.Float64() * (100 - elem.W), rng.Float64() * (100 - elem.H)}
		c := Size{1 + rng.Float64()*2000, 1 + rng.Float64()*2000}
		o := Pt{rng.Float64() * c.W, rng.Float64() * c.H}
		cur := Pt{rng.Float64()*4*c.W - 2*c.W, rng.Float64()*4*c.H - 2*c.H}
		got := Drag(o, cur, c, start, elem)
		if got.X < 0 || got.X > 100-elem.W || got.Y < 0 || got.Y > 100-elem.H {
			t.Fatalf("case %d out of bounds: %+v elem=%+v", i, got, elem)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 {
		t.Fatalf("Clamp basic cases failed")
	}
	if Clamp(5, 0, -20) != 0 {
		t.Fatalf("empty range should resolve to lower bound")
	}
}
