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

// Package cbor provides the deterministic CBOR encoding used for offline signing requests and
// signature bundles.
//
// It wraps github.com/fxamacker/cbor/v2. Embed StructAsArray to encode a struct as a CBOR
// array instead of a map, and DecodeStoreCbor to keep the original bytes of a decoded value:
//
//	type Request struct {
//	    cbor.StructAsArray
//	    cbor.DecodeStoreCbor
//	    Field1 string
//	}
//
//	func (r *Request) UnmarshalCBOR(data []byte) error {
//	    return r.UnmarshalCborGeneric(data, r)
//	}
//
// Fingerprints must be computed over Cbor(), not over a re-encoding.
package cbor
