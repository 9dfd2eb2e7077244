/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package generate

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an expert presentation designer and content creator. Your task is to generate a visually engaging and informative presentation on the topic: %[1]q.
The output must be a valid JSON object that adheres to the provided schema.
Generate 5-7 slides, including a title slide, several content slides, and a concluding slide.

Design Guidelines:
1. Theme: Create a cohesive visual theme. All slide backgrounds should feel like they belong together.
2. Backgrounds: For each slide, define a 'background' object. It can be a simple 'color' or an 'image'. For images, provide a concise but descriptive search query in the 'value' field. Example: 'dark blue geometric pattern'.
3. Content: Create clear and concise text content. Use bullet points for 'TEXT' elements ('• ' prefix, separated by '\n').
4. Images: On 2-3 of the content slides, add one 'IMAGE' element to visually support the text. The 'content' for the image should be a descriptive search query. Example: 'solar panels on a modern roof'.
5. Layout: Arrange elements professionally. Titles at the top, text below. Place images thoughtfully, ensuring they don't obscure text. Leave adequate white space. Avoid clutter. All positions and sizes are percentages of the slide (0-100) and every element must stay inside the slide.

For the topic %[1]q, generate the presentation now.`

// BuildPrompt renders the design prompt for topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(topic))
}
