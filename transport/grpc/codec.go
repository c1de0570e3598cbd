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

package grpc

import "fmt"

// rawCodec passes pre-encoded message bytes through unchanged. It registers under the "proto"
// name so the content type matches what nodes expect
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch tmp := v.(type) {
	case *[]byte:
		return *tmp, nil
	case []byte:
		return tmp, nil
	default:
		return nil, fmt.Errorf("raw codec: cannot marshal %T", v)
	}
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	tmp, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: cannot unmarshal into %T", v)
	}
	*tmp = append((*tmp)[:0], data...)
	return nil
}

func (rawCodec) Name() string {
	return "proto"
}
