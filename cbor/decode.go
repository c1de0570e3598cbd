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

package cbor

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// decMode rejects unknown map fields and bounds the nesting and array sizes accepted from
// untrusted signing requests and bundles
var decMode = sync.OnceValues(func() (_cbor.DecMode, error) {
	return _cbor.DecOptions{
		ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
		MaxNestedLevels:   16,
		MaxArrayElements:  65536,
	}.DecMode()
})

// ErrTrailingData is returned by Decode when the input holds more than one CBOR item
var ErrTrailingData = errors.New("trailing data after CBOR item")

// Decode decodes a single CBOR item into dest and returns the number of bytes read. The whole
// input must be consumed
func Decode(dataBytes []byte, dest any) (int, error) {
	dm, err := decMode()
	if err != nil {
		return 0, err
	}
	dec := dm.NewDecoder(bytes.NewReader(dataBytes))
	if err := dec.Decode(dest); err != nil {
		return dec.NumBytesRead(), err
	}
	if n := dec.NumBytesRead(); n != len(dataBytes) {
		return n, fmt.Errorf("%w: %d of %d bytes used", ErrTrailingData, n, len(dataBytes))
	}
	return len(dataBytes), nil
}

var (
	decodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	decodeGenericTypeCacheMutex sync.RWMutex
)

// DecodeGeneric decodes the specified CBOR into the destination object without using the
// destination object's UnmarshalCBOR() function
func DecodeGeneric(cborData []byte, dest any) error {
	valueDest := reflect.ValueOf(dest)
	if valueDest.Kind() != reflect.Pointer ||
		valueDest.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}
	tmpType := genericType(
		valueDest.Elem().Type(),
		decodeGenericTypeCache,
		&decodeGenericTypeCacheMutex,
	)
	// Create temporary object with the type created above
	tmpDest := reflect.New(tmpType)
	// Decode CBOR into temporary object
	if _, err := Decode(cborData, tmpDest.Interface()); err != nil {
		return err
	}
	// Copy values from temporary object into destination object
	return copier.Copy(dest, tmpDest.Interface())
}
