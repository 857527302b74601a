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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTerm indicates a Term failed validation.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyName indicates a term name is empty after normalization.
	ErrEmptyName = errors.New("name empty after normalization")

	// ErrNegativeFrequency indicates a frequency counter below zero.
	ErrNegativeFrequency = errors.New("frequency cannot be negative")

	// ErrInvalidOrigin indicates an invalid Origin value.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrEncoding indicates source bytes are not valid UTF-8.
	ErrEncoding = errors.New("source is not valid UTF-8")
)
