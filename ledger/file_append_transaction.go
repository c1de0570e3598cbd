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

package ledger

import (
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	bodyFieldFileAppend = 16

	fileAppendFieldFileId   = 2
	fileAppendFieldContents = 4
)

// FileAppendTransaction appends contents to a file. Contents larger than the chunk size are
// appended by a sequence of transactions, one per chunk
type FileAppendTransaction struct {
	transaction
	fileId   entity.EntityId
	contents chunkedPayload
}

func NewFileAppendTransaction() *FileAppendTransaction {
	t := &FileAppendTransaction{
		contents: newChunkedPayload(DefaultFileAppendChunkSize),
	}
	t.init(t)
	return t
}

func (t *FileAppendTransaction) FileId() entity.EntityId {
	return t.fileId
}

func (t *FileAppendTransaction) SetFileId(id entity.EntityId) error {
	if err := t.checkMutable("file ID"); err != nil {
		return err
	}
	t.fileId = id
	return nil
}

func (t *FileAppendTransaction) Contents() []byte {
	return t.contents.payload
}

func (t *FileAppendTransaction) SetContents(contents []byte) error {
	if err := t.checkMutable("contents"); err != nil {
		return err
	}
	t.contents.payload = append([]byte(nil), contents...)
	return nil
}

func (t *FileAppendTransaction) ChunkSize() int {
	return t.contents.chunkSize
}

func (t *FileAppendTransaction) SetChunkSize(size int) error {
	if err := t.checkMutable("chunk size"); err != nil {
		return err
	}
	return t.contents.setChunkSize(size)
}

func (t *FileAppendTransaction) MaxChunks() int {
	return t.contents.maxChunks
}

func (t *FileAppendTransaction) SetMaxChunks(maxChunks int) error {
	if err := t.checkMutable("max chunks"); err != nil {
		return err
	}
	return t.contents.setMaxChunks(maxChunks)
}

func (t *FileAppendTransaction) kindName() string {
	return "FileAppendTransaction"
}

func (t *FileAppendTransaction) dataField() protowire.Number {
	return bodyFieldFileAppend
}

func (t *FileAppendTransaction) method() transport.Method {
	return transport.MethodAppendFileContent
}

func (t *FileAppendTransaction) validate() error {
	if t.fileId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeField,
			"file append transaction requires a file ID",
			nil,
			nil,
		)
	}
	if len(t.contents.payload) == 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			"file append transaction requires contents",
			nil,
			nil,
		)
	}
	return nil
}

func (t *FileAppendTransaction) chunkCount() (int, error) {
	return t.contents.chunkCount()
}

func (t *FileAppendTransaction) marshalData(chunk chunkContext) []byte {
	e := wire.NewEncoder()
	e.MessageField(fileAppendFieldFileId, t.fileId)
	e.BytesField(fileAppendFieldContents, t.contents.chunk(chunk.index))
	return e.Bytes()
}

func (t *FileAppendTransaction) unmarshalData(chunks [][]byte) error {
	parts := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		var part []byte
		d := wire.NewDecoder(chunk)
		for d.Next() {
			f := d.Field()
			var err error
			switch f.Number {
			case fileAppendFieldFileId:
				t.fileId, err = entityField(f)
			case fileAppendFieldContents:
				part, err = f.Bytes()
			}
			if err != nil {
				return err
			}
		}
		if err := d.Err(); err != nil {
			return err
		}
		parts = append(parts, part)
	}
	t.contents.restore(parts)
	return nil
}
