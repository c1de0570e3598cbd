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
	"reflect"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

// encMode sorts map keys so that equal values always encode to the same bytes
var encMode = sync.OnceValues(func() (_cbor.EncMode, error) {
	return _cbor.EncOptions{Sort: _cbor.SortCoreDeterministic}.EncMode()
})

// Encode returns the deterministic CBOR encoding of data
func Encode(data any) ([]byte, error) {
	em, err := encMode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := em.NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	encodeGenericTypeCache      = map[reflect.Type]reflect.Type{}
	encodeGenericTypeCacheMutex sync.RWMutex
)

// EncodeGeneric encodes the specified object to CBOR without using the source object's
// MarshalCBOR() function
func EncodeGeneric(src any) ([]byte, error) {
	valueSrc := reflect.ValueOf(src)
	if valueSrc.Kind() != reflect.Pointer ||
		valueSrc.Elem().Kind() != reflect.Struct {
		return nil, errors.New("source must be a pointer to a struct")
	}
	tmpType := genericType(
		valueSrc.Elem().Type(),
		encodeGenericTypeCache,
		&encodeGenericTypeCacheMutex,
	)
	// Create temporary object with the type created above
	tmpSrc := reflect.New(tmpType)
	// Copy values from source object into temporary object
	if err := copier.Copy(tmpSrc.Interface(), src); err != nil {
		return nil, err
	}
	return Encode(tmpSrc.Interface())
}

// genericType returns a duplicate(-ish) struct type with the exported fields of the provided
// type, minus the stored CBOR. It has none of the original type's methods, which lets callers
// bypass custom MarshalCBOR() and UnmarshalCBOR() functions
func genericType(
	orig reflect.Type,
	cache map[reflect.Type]reflect.Type,
	mutex *sync.RWMutex,
) reflect.Type {
	mutex.RLock()
	ret, ok := cache[orig]
	mutex.RUnlock()
	if ok {
		return ret
	}
	fields := []reflect.StructField{}
	for i := range orig.NumField() {
		tmpField := orig.Field(i)
		if tmpField.IsExported() && tmpField.Name != "DecodeStoreCbor" {
			fields = append(fields, tmpField)
		}
	}
	ret = reflect.StructOf(fields)
	mutex.Lock()
	cache[orig] = ret
	mutex.Unlock()
	return ret
}
