// Copyright 2026 Blink Labs Software
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

// Package wire implements the deterministic field-tag/length/value encoding shared with the
// network's protobuf schema.
//
// Fields are always appended in the order the caller emits them, and zero-valued scalars are
// omitted, so identical inputs always produce identical bytes. Callers are expected to emit
// fields in ascending field-number order, which matches the canonical protobuf serialization
// produced by the network's own implementation.
package wire
