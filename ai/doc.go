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


// Package ai defines the embedding capability used for semantic term search.
//
// The Embedder interface abstracts over embedding providers so the index
// and ingestion pipeline never depend on a concrete service. The openai
// subpackage implements it against any OpenAI-compatible endpoint; the
// mock subpackage provides a deterministic implementation for tests.
package ai
