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
	bodyFieldConsensusSubmitMessage = 27

	submitMessageFieldTopicId   = 1
	submitMessageFieldMessage   = 2
	submitMessageFieldChunkInfo = 3

	chunkInfoFieldInitialTransactionId = 1
	chunkInfoFieldTotal                = 2
	chunkInfoFieldNumber               = 3
)

// TopicMessageSubmitTransaction submits a message to a consensus topic. Messages larger than
// the chunk size are sent as a sequence of chunks, each its own transaction
type TopicMessageSubmitTransaction struct {
	transaction
	topicId entity.EntityId
	message chunkedPayload
}

func NewTopicMessageSubmitTransaction() *TopicMessageSubmitTransaction {
	t := &TopicMessageSubmitTransaction{
		message: newChunkedPayload(DefaultTopicMessageChunkSize),
	}
	t.init(t)
	return t
}

func (t *TopicMessageSubmitTransaction) TopicId() entity.EntityId {
	return t.topicId
}

func (t *TopicMessageSubmitTransaction) SetTopicId(id entity.EntityId) error {
	if err := t.checkMutable("topic ID"); err != nil {
		return err
	}
	t.topicId = id
	return nil
}

func (t *TopicMessageSubmitTransaction) Message() []byte {
	return t.message.payload
}

func (t *TopicMessageSubmitTransaction) SetMessage(message []byte) error {
	if err := t.checkMutable("message"); err != nil {
		return err
	}
	t.message.payload = append([]byte(nil), message...)
	return nil
}

func (t *TopicMessageSubmitTransaction) ChunkSize() int {
	return t.message.chunkSize
}

func (t *TopicMessageSubmitTransaction) SetChunkSize(size int) error {
	if err := t.checkMutable("chunk size"); err != nil {
		return err
	}
	return t.message.setChunkSize(size)
}

func (t *TopicMessageSubmitTransaction) MaxChunks() int {
	return t.message.maxChunks
}

func (t *TopicMessageSubmitTransaction) SetMaxChunks(maxChunks int) error {
	if err := t.checkMutable("max chunks"); err != nil {
		return err
	}
	return t.message.setMaxChunks(maxChunks)
}

func (t *TopicMessageSubmitTransaction) kindName() string {
	return "TopicMessageSubmitTransaction"
}

func (t *TopicMessageSubmitTransaction) dataField() protowire.Number {
	return bodyFieldConsensusSubmitMessage
}

func (t *TopicMessageSubmitTransaction) method() transport.Method {
	return transport.MethodSubmitTopicMessage
}

func (t *TopicMessageSubmitTransaction) validate() error {
	if t.topicId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeField,
			"topic message submit transaction requires a topic ID",
			nil,
			nil,
		)
	}
	if len(t.message.payload) == 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			"topic message submit transaction requires a message",
			nil,
			nil,
		)
	}
	return nil
}

func (t *TopicMessageSubmitTransaction) chunkCount() (int, error) {
	return t.message.chunkCount()
}

func (t *TopicMessageSubmitTransaction) marshalData(chunk chunkContext) []byte {
	e := wire.NewEncoder()
	e.MessageField(submitMessageFieldTopicId, t.topicId)
	e.BytesField(submitMessageFieldMessage, t.message.chunk(chunk.index))
	if chunk.total > 1 {
		info := wire.NewEncoder()
		info.MessageField(chunkInfoFieldInitialTransactionId, chunk.initialTransactionId)
		info.Uint64Field(chunkInfoFieldTotal, uint64(chunk.total))
		info.Uint64Field(chunkInfoFieldNumber, uint64(chunk.index+1))
		e.RawField(submitMessageFieldChunkInfo, info.Bytes())
	}
	return e.Bytes()
}

func (t *TopicMessageSubmitTransaction) unmarshalData(chunks [][]byte) error {
	parts := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		var part []byte
		d := wire.NewDecoder(chunk)
		for d.Next() {
			f := d.Field()
			var err error
			switch f.Number {
			case submitMessageFieldTopicId:
				t.topicId, err = entityField(f)
			case submitMessageFieldMessage:
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
	t.message.restore(parts)
	return nil
}
