/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the slide deck data model. Positions and sizes are
// percentages of the slide canvas so a deck renders identically at any
// pixel size. Field names follow the JSON shape produced by the generator.

import (
	"errors"
	"fmt"
	"strings"
)

// ElementKind identifies what an element renders.
type ElementKind string

const (
	KindTitle ElementKind = "TITLE"
	KindText  ElementKind = "TEXT"
	KindImage ElementKind = "IMAGE"
)

// IsText reports whether the element content is user-editable text.
func (k ElementKind) IsText() bool { return k == KindTitle || k == KindText }

func (k ElementKind) valid() bool { return k == KindTitle || k == KindText || k == KindImage }

type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// BackgroundKind selects how Background.Value is interpreted.
type BackgroundKind string

const (
	BackgroundColor BackgroundKind = "color" // Value is a hex colour
	BackgroundImage BackgroundKind = "image" // Value is an image URL (a search query before resolution)
)

// DefaultBackground is used for slides added by the user.
var DefaultBackground = Background{Kind: BackgroundColor, Value: "#ffffff"}

// Element is a positioned visual object on a slide.
// For IMAGE elements Content holds the image URL.
type Element struct {
	ID         string      `json:"id"`
	Kind       ElementKind `json:"type"`
	Content    string      `json:"content"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	FontSize   *float64    `json:"fontSize,omitempty"` // rem
	FontWeight FontWeight  `json:"fontWeight,omitempty"`
	TextAlign  TextAlign   `json:"textAlign,omitempty"`
}

// Background describes the slide backdrop.
type Background struct {
	Kind  BackgroundKind `json:"type"`
	Value string         `json:"value"`
}

// Slide is an ordered collection of elements; later elements draw on top.
type Slide struct {
	ID         string     `json:"id"`
	Elements   []Element  `json:"elements"`
	Background Background `json:"background"`
}

// Presentation is the whole deck edited in one session.
type Presentation struct {
	Slides []Slide `json:"slides"`
}

// Rendering defaults for optional typography fields.
const (
	DefaultFontSize = 1.0 // rem
)

// EffectiveFontSize returns the font size in rem, falling back to DefaultFontSize.
func (e Element) EffectiveFontSize() float64 {
	if e.FontSize == nil || *e.FontSize <= 0 {
		return DefaultFontSize
	}
	return *e.FontSize
}

func (e Element) EffectiveFontWeight() FontWeight {
	if e.FontWeight == "" {
		return WeightNormal
	}
	return e.FontWeight
}

func (e Element) EffectiveTextAlign() TextAlign {
	if e.TextAlign == "" {
		return AlignLeft
	}
	return e.TextAlign
}

// Clone returns a copy that shares no pointers with e.
func (e Element) Clone() Element {
	c := e
	if e.FontSize != nil {
		fs := *e.FontSize
		c.FontSize = &fs
	}
	return c
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	c := s
	if s.Elements != nil {
		c.Elements = make([]Element, len(s.Elements))
		for i, el := range s.Elements {
			c.Elements[i] = el.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the presentation.
func (p Presentation) Clone() Presentation {
	c := Presentation{}
	if p.Slides != nil {
		c.Slides = make([]Slide, len(p.Slides))
		for i, s := range p.Slides {
			c.Slides[i] = s.Clone()
		}
	}
	return c
}

// IndexOf returns the position of the element with the given id, or -1.
func (s Slide) IndexOf(elementID string) int {
	for i, el := range s.Elements {
		if el.ID == elementID {
			return i
		}
	}
	return -1
}

// ErrNoSlides is returned by Validate for an empty deck.
var ErrNoSlides = errors.New("presentation has no slides")

// Validate checks the structural invariants a loaded deck must satisfy.
// All problems are reported together.
func (p Presentation) Validate() error {
	if len(p.Slides) == 0 {
		return ErrNoSlides
	}
	var errs []error
	for i, s := range p.Slides {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("slide %d: missing id", i))
		}
		switch s.Background.Kind {
		case BackgroundColor, BackgroundImage:
		default:
			errs = append(errs, fmt.Errorf("slide %d: unknown background type %q", i, s.Background.Kind))
		}
		for j, el := range s.Elements {
			if strings.TrimSpace(el.ID) == "" {
				errs = append(errs, fmt.Errorf("slide %d element %d: missing id", i, j))
			}
			if !el.Kind.valid() {
				errs = append(errs, fmt.Errorf("slide %d element %d: unknown type %q", i, j, el.Kind))
			}
			if el.Width < 0 || el.Height < 0 {
				errs = append(errs, fmt.Errorf("slide %d element %d: negative size", i, j))
			}
		}
	}
	return errors.Join(errs...)
}
