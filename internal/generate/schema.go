/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	_ "embed"

	"google.golang.org/genai"
)

// presentationSchemaJSON is the JSON Schema every model response must satisfy
// before it is decoded.
//
//go:embed presentation.schema.json
var presentationSchemaJSON []byte

// ResponseSchema describes the deck shape to the model. It mirrors
// presentation.schema.json.
func ResponseSchema() *genai.Schema {
	str := func(desc string, enum ...string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: enum}
	}
	num := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}
	background := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":  str("", "color", "image"),
			"value": str("If type is 'color', a hex code. If type is 'image', a concise search query for a background image (e.g., 'abstract blue gradient')."),
		},
		Required:         []string{"type", "value"},
		PropertyOrdering: []string{"type", "value"},
	}
	element := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":         str("Unique identifier for the element."),
			"type":       str("Type of the element.", "TITLE", "TEXT", "IMAGE"),
			"content":    str("For TEXT/TITLE, the text content. For IMAGE, a concise search query (e.g., 'happy business team'). Use '• ' for bullet points separated by '\\n'."),
			"x":          num("Horizontal position from left as a percentage (0-100)."),
			"y":          num("Vertical position from top as a percentage (0-100)."),
			"width":      num("Width of the element as a percentage (0-100)."),
			"height":     num("Height of the element as a percentage (0-100)."),
			"fontSize":   num("Font size in rem units (e.g., 3 for titles)."),
			"fontWeight": str("Font weight.", "bold", "normal"),
			"textAlign":  str("Text alignment.", "left", "center", "right"),
		},
		Required:         []string{"id", "type", "content", "x", "y", "width", "height"},
		PropertyOrdering: []string{"id", "type", "content", "x", "y", "width", "height", "fontSize", "fontWeight", "textAlign"},
	}
	slide := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":         str("Unique identifier for the slide."),
			"background": background,
			"elements":   {Type: genai.TypeArray, Description: "Array of elements on the slide.", Items: element},
		},
		Required:         []string{"id", "background", "elements"},
		PropertyOrdering: []string{"id", "background", "elements"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"slides": {Type: genai.TypeArray, Description: "An array of slide objects.", Items: slide},
		},
		Required: []string{"slides"},
	}
}
