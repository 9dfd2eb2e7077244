/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"goslidewriter/internal/domain"
)

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(presentationSchemaJSON))
	})
	return schema, schemaErr
}

// Decode parses a model response into a presentation. The payload must
// conform to presentation.schema.json and contain at least one slide.
// Markdown code fences around the JSON are tolerated.
func Decode(raw []byte) (domain.Presentation, error) {
	raw = stripFences(bytes.TrimSpace(raw))
	if len(raw) == 0 {
		return domain.Presentation{}, &GenerationError{Op: OpDecode, Err: ErrEmptyResponse}
	}
	if !json.Valid(raw) {
		return domain.Presentation{}, &GenerationError{Op: OpDecode, Err: errors.New("response is not valid JSON")}
	}
	sch, err := compiledSchema()
	if err != nil {
		return domain.Presentation{}, &GenerationError{Op: OpValidate, Err: fmt.Errorf("compile schema: %w", err)}
	}
	res, err := sch.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return domain.Presentation{}, &GenerationError{Op: OpValidate, Err: err}
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Presentation{}, &GenerationError{Op: OpValidate, Err: fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))}
	}

	var p domain.Presentation
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Presentation{}, &GenerationError{Op: OpDecode, Err: err}
	}
	normalizeIDs(&p)
	if err := p.Validate(); err != nil {
		return domain.Presentation{}, &GenerationError{Op: OpValidate, Err: err}
	}
	return p, nil
}

func stripFences(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = bytes.TrimPrefix(b, []byte("```"))
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:] // drop the language tag line
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}

// normalizeIDs replaces blank or duplicate ids so every slide id is unique in
// the deck and every element id is unique on its slide. Element updates are
// addressed by id, so a duplicate would make one of the elements unreachable.
func normalizeIDs(p *domain.Presentation) {
	seenSlides := map[string]bool{}
	for i := range p.Slides {
		s := &p.Slides[i]
		if strings.TrimSpace(s.ID) == "" || seenSlides[s.ID] {
			s.ID = "slide-" + uuid.NewString()
		}
		seenSlides[s.ID] = true
		if s.Elements == nil {
			s.Elements = []domain.Element{}
		}
		seenEls := map[string]bool{}
		for j := range s.Elements {
			el := &s.Elements[j]
			if strings.TrimSpace(el.ID) == "" || seenEls[el.ID] {
				el.ID = "el-" + uuid.NewString()
			}
			seenEls[el.ID] = true
		}
	}
}
