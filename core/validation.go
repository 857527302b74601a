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

import "fmt"

// ValidateTerm validates a Term according to domain rules.
//
// Validation rules:
//   - Name must be non-empty after normalization
//   - Frequency must not be negative
//   - Origin must be valid (built-in or custom)
//
// NOT validated (populated elsewhere):
//   - Vector (can be empty until the index rebuild embeds it)
//   - Category (empty is filled with DefaultCategory on merge)
//   - ID (0 is replaced by a content-based ID)
func ValidateTerm(term *Term) error {
	if term == nil {
		return fmt.Errorf("%w: term is nil", ErrInvalidTerm)
	}

	if NormalizeKey(term.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrEmptyName)
	}

	if term.Frequency < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrNegativeFrequency)
	}

	if err := ValidateOrigin(term.Origin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, err)
	}

	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - Surface must be non-empty after normalization
//   - Frequency must not be negative
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if NormalizeKey(candidate.Surface) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyName)
	}

	if candidate.Frequency < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrNegativeFrequency)
	}

	return nil
}

// ValidateOrigin validates that an Origin has a valid value.
func ValidateOrigin(origin Origin) error {
	if origin != OriginBuiltin && origin != OriginCustom {
		return fmt.Errorf("%w: value %d", ErrInvalidOrigin, origin)
	}
	return nil
}
