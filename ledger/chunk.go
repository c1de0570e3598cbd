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
	"fmt"
)

// Chunking defaults per transaction kind
const (
	DefaultTopicMessageChunkSize = 1024
	DefaultFileAppendChunkSize   = 4096
	DefaultMaxChunks             = 20
)

// ChunkCount returns the number of chunks of chunkSize bytes needed for a payload of length bytes
func ChunkCount(length int, chunkSize int) int {
	if chunkSize <= 0 {
		return 0
	}
	return (length + chunkSize - 1) / chunkSize
}

// SplitChunks splits the payload into chunks of at most chunkSize bytes. The chunks alias the
// payload. A ChunkLimitExceededError is returned when more than maxChunks chunks are needed
func SplitChunks(payload []byte, chunkSize int, maxChunks int) ([][]byte, error) {
	if chunkSize <= 0 {
		return nil, NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("chunk size must be positive, got %d", chunkSize),
			nil,
			nil,
		)
	}
	count := ChunkCount(len(payload), chunkSize)
	if count > maxChunks {
		return nil, &ChunkLimitExceededError{
			PayloadSize:    len(payload),
			ChunkSize:      chunkSize,
			RequiredChunks: count,
			MaxChunks:      maxChunks,
		}
	}
	ret := make([][]byte, 0, count)
	for i := range count {
		end := min(len(payload), (i+1)*chunkSize)
		ret = append(ret, payload[i*chunkSize:end])
	}
	return ret, nil
}

// chunkContext describes the chunk being rendered
type chunkContext struct {
	index                int
	total                int
	initialTransactionId TransactionId
}

// sliceChunks derives the transaction ID of every chunk from the initial one. Chunk i starts
// i nanoseconds after the initial valid start
func sliceChunks(initial TransactionId, total int) []TransactionId {
	ret := make([]TransactionId, 0, total)
	for i := range total {
		ret = append(ret, initial.offset(i))
	}
	return ret
}

// chunkedPayload holds the payload of a transaction kind that may be split into chunks
type chunkedPayload struct {
	payload   []byte
	chunkSize int
	maxChunks int
}

func newChunkedPayload(chunkSize int) chunkedPayload {
	return chunkedPayload{
		chunkSize: chunkSize,
		maxChunks: DefaultMaxChunks,
	}
}

func (c *chunkedPayload) chunkCount() (int, error) {
	chunks, err := SplitChunks(c.payload, c.chunkSize, c.maxChunks)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (c *chunkedPayload) chunk(index int) []byte {
	start := index * c.chunkSize
	end := min(len(c.payload), start+c.chunkSize)
	return c.payload[start:end]
}

// restore rebuilds the payload from decoded chunks. The chunk size is taken from the first
// chunk when there is more than one
func (c *chunkedPayload) restore(parts [][]byte) {
	c.payload = nil
	for _, part := range parts {
		c.payload = append(c.payload, part...)
	}
	if len(parts) > 1 {
		c.chunkSize = len(parts[0])
	}
	c.maxChunks = max(c.maxChunks, len(parts))
}

func (c *chunkedPayload) setChunkSize(size int) error {
	if size <= 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("chunk size must be positive, got %d", size),
			nil,
			nil,
		)
	}
	c.chunkSize = size
	return nil
}

func (c *chunkedPayload) setMaxChunks(maxChunks int) error {
	if maxChunks <= 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("max chunks must be positive, got %d", maxChunks),
			nil,
			nil,
		)
	}
	c.maxChunks = maxChunks
	return nil
}
