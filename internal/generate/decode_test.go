/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	"errors"
	"strings"
	"testing"
)

const validDeck = `{
  "slides": [
    {
      "id": "s1",
      "background": {"type": "image", "value": "dark blue geometric pattern"},
      "elements": [
        {"id": "t1", "type": "TITLE", "content": "Solar Power", "x": 10, "y": 10, "width": 80, "height": 20, "fontSize": 3, "fontWeight": "bold", "textAlign": "center"},
        {"id": "i1", "type": "IMAGE", "content": "solar panels on a modern roof", "x": 55, "y": 35, "width": 40, "height": 50}
      ]
    },
    {
      "id": "s2",
      "background": {"type": "color", "value": "#0b1e3f"},
      "elements": [
        {"id": "b1", "type": "TEXT", "content": "• Clean\n• Cheap", "x": 10, "y": 30, "width": 40, "height": 50}
      ]
    }
  ]
}`

func TestDecodeValid(t *testing.T) {
	p, err := Decode([]byte(validDeck))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(p.Slides) != 2 || len(p.Slides[0].Elements) != 2 {
		t.Fatalf("unexpected structure: %+v", p)
	}
	if p.Slides[0].Elements[0].EffectiveFontSize() != 3 {
		t.Fatalf("fontSize not decoded")
	}
}

func TestDecodeToleratesCodeFences(t *testing.T) {
	if _, err := Decode([]byte("```json\n" + validDeck + "\n```")); err != nil {
		t.Fatalf("fenced JSON rejected: %v", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]struct {
		in string
		op string
	}{
		"empty":           {in: "   ", op: OpDecode},
		"not json":        {in: "Sure! Here is your deck", op: OpDecode},
		"no slides":       {in: `{"slides": []}`, op: OpValidate},
		"missing slides":  {in: `{"deck": []}`, op: OpValidate},
		"missing x":       {in: `{"slides":[{"id":"s","background":{"type":"color","value":"#fff"},"elements":[{"id":"e","type":"TEXT","content":"c","y":1,"width":1,"height":1}]}]}`, op: OpValidate},
		"bad kind":        {in: `{"slides":[{"id":"s","background":{"type":"color","value":"#fff"},"elements":[{"id":"e","type":"CHART","content":"c","x":1,"y":1,"width":1,"height":1}]}]}`, op: OpValidate},
		"bad background":  {in: `{"slides":[{"id":"s","background":{"type":"video","value":"x"},"elements":[]}]}`, op: OpValidate},
		"negative width":  {in: `{"slides":[{"id":"s","background":{"type":"color","value":"#fff"},"elements":[{"id":"e","type":"TEXT","content":"c","x":1,"y":1,"width":-5,"height":1}]}]}`, op: OpValidate},
		"missing element": {in: `{"slides":[{"id":"s","background":{"type":"color","value":"#fff"}}]}`, op: OpValidate},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tc.in))
			var ge *GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if ge.Op != tc.op {
				t.Fatalf("op = %q, want %q (%v)", ge.Op, tc.op, err)
			}
		})
	}
}

func TestDecodeMakesIDsUnique(t *testing.T) {
	in := `{"slides":[
	  {"id":"dup","background":{"type":"color","value":"#fff"},"elements":[
	    {"id":"e","type":"TEXT","content":"a","x":0,"y":0,"width":1,"height":1},
	    {"id":"e","type":"TEXT","content":"b","x":0,"y":0,"width":1,"height":1},
	    {"id":"","type":"TEXT","content":"c","x":0,"y":0,"width":1,"height":1}]},
	  {"id":"dup","background":{"type":"color","value":"#fff"},"elements":[]}]}`
	p, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Slides[0].ID == p.Slides[1].ID {
		t.Fatalf("slide ids not made unique")
	}
	ids := map[string]bool{}
	for _, el := range p.Slides[0].Elements {
		if el.ID == "" || ids[el.ID] {
			t.Fatalf("element ids not unique: %+v", p.Slides[0].Elements)
		}
		ids[el.ID] = true
	}
	if p.Slides[0].Elements[0].ID != "e" {
		t.Fatalf("first occurrence should keep its id")
	}
	if p.Slides[1].Elements == nil {
		t.Fatalf("elements should be non-nil")
	}
}

func TestUserMessage(t *testing.T) {
	if msg := UserMessage(&GenerationError{Op: OpValidate, Err: errors.New("x")}); !strings.Contains(msg, "invalid structure") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if msg := UserMessage(errors.New("boom")); msg != "An unknown error occurred." {
		t.Fatalf("unexpected message: %q", msg)
	}
	if UserMessage(nil) != "" {
		t.Fatalf("nil error should have empty message")
	}
}
