// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizeKey canonicalizes a raw term spelling into the registry key form.
//
// Normalization rules:
//   - surrounding whitespace is trimmed
//   - half-width katakana is folded to full-width, full-width Latin and
//     digits to half-width (width.Fold)
//   - Latin letters are lowercased
//
// Two raw spellings that normalize to the same key denote the same Term.
// Hiragana and katakana are NOT folded into each other: they are distinct
// surface forms in domain vocabulary.
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	return strings.ToLower(s)
}

// NormalizeKeys normalizes a list of raw spellings, dropping entries that
// normalize to the empty string and collapsing duplicates while preserving
// first-seen order.
func NormalizeKeys(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		key := NormalizeKey(r)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
