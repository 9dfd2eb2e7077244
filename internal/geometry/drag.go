/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Drag computes the new percent origin of an element being dragged.
//
// origin and current are pointer positions in pixels, container is the pixel
// size of the slide canvas, start is the element origin (percent) captured at
// pointer-down and elem its percent size. The pointer delta is always measured
// from the drag origin so repeated moves never accumulate rounding error.
func Drag(origin, current Pt, container Size, start Pt, elem Size) Pt {
	delta := ToPercent(current.Sub(origin), container)
	return ClampOrigin(start.Add(delta), elem)
}
