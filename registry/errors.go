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


package registry

import "errors"

var (
	// ErrBuiltinImmutable is returned when a delete or update targets a
	// built-in term. Built-ins can only be enriched through merge.
	ErrBuiltinImmutable = errors.New("built-in term is immutable")

	// ErrTermNotFound is returned when the named term does not exist.
	ErrTermNotFound = errors.New("term not found")

	// ErrTermExists is returned when an add collides with an existing
	// name or alias.
	ErrTermExists = errors.New("term already exists")
)
