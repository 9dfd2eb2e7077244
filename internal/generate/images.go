/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"goslidewriter/internal/domain"
)

// ImageResolver rewrites image search queries into fetchable URLs of the form
// <BaseURL>/<Size>/?<comma,separated,terms>&<nonce>. The nonce defeats caching
// so two slides asking for the same query get different pictures.
type ImageResolver struct {
	BaseURL string
	Size    string
	Nonce   func() string
}

// DefaultImageResolver targets the Unsplash source endpoint.
func DefaultImageResolver() ImageResolver {
	return ImageResolver{BaseURL: "https://source.unsplash.com", Size: "1280x720"}
}

// fallbackQuery is used when the model leaves an image query blank.
const fallbackQuery = "abstract background"

func (r ImageResolver) nonce() string {
	if r.Nonce != nil {
		return r.Nonce()
	}
	return strconv.FormatUint(rand.Uint64(), 36)
}

// URL returns the image URL for query. Values that already are http(s) URLs
// are returned unchanged.
func (r ImageResolver) URL(query string) string {
	q := strings.TrimSpace(query)
	if isURL(q) {
		return q
	}
	if q == "" {
		q = fallbackQuery
	}
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = DefaultImageResolver().BaseURL
	}
	size := r.Size
	if size == "" {
		size = DefaultImageResolver().Size
	}
	terms := url.QueryEscape(strings.Join(strings.Fields(q), ","))
	return base + "/" + size + "/?" + terms + "&" + r.nonce()
}

// Resolve returns a copy of p with image backgrounds and IMAGE elements
// pointing at URLs instead of search queries.
func (r ImageResolver) Resolve(p domain.Presentation) domain.Presentation {
	out := p.Clone()
	for i := range out.Slides {
		s := &out.Slides[i]
		if s.Background.Kind == domain.BackgroundImage {
			s.Background.Value = r.URL(s.Background.Value)
		}
		for j := range s.Elements {
			if s.Elements[j].Kind == domain.KindImage {
				s.Elements[j].Content = r.URL(s.Elements[j].Content)
			}
		}
	}
	return out
}

func isURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}
