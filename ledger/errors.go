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
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/goledger/entity"
)

// ValidationError represents a structured validation error with additional context. It is
// returned for bad or missing fields detected before any network interaction
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Details map[string]any
	Cause   error
}

type ValidationErrorType string

const (
	ValidationErrorTypeField     ValidationErrorType = "field"
	ValidationErrorTypeFreeze    ValidationErrorType = "freeze"
	ValidationErrorTypeSignature ValidationErrorType = "signature"
	ValidationErrorTypeEncoding  ValidationErrorType = "encoding"
	ValidationErrorTypeQuery     ValidationErrorType = "query"
)

func (e ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Sentinel error for validation failures so callers can use errors.Is
var ErrValidation = errors.New("validation failed")

func (ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new structured validation error
func NewValidationError(
	errType ValidationErrorType,
	message string,
	details map[string]any,
	cause error,
) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// FrozenStateError indicates a field mutation on a frozen transaction or query
type FrozenStateError struct {
	Field string
}

func (e FrozenStateError) Error() string {
	return fmt.Sprintf("cannot set %s: transaction is frozen", e.Field)
}

var ErrFrozen = errors.New("transaction is frozen")

func (FrozenStateError) Is(target error) bool {
	return target == ErrFrozen
}

// ChunkLimitExceededError indicates that a payload needs more chunks than allowed
type ChunkLimitExceededError struct {
	PayloadSize    int
	ChunkSize      int
	RequiredChunks int
	MaxChunks      int
}

func (e ChunkLimitExceededError) Error() string {
	return fmt.Sprintf(
		"payload of %d bytes needs %d chunks of %d bytes, more than the maximum of %d",
		e.PayloadSize,
		e.RequiredChunks,
		e.ChunkSize,
		e.MaxChunks,
	)
}

var ErrChunkLimitExceeded = errors.New("chunk limit exceeded")

func (ChunkLimitExceededError) Is(target error) bool {
	return target == ErrChunkLimitExceeded
}

// PrecheckError indicates that a node rejected a request before consensus
type PrecheckError struct {
	Status        Status
	Node          entity.EntityId
	TransactionId TransactionId
}

func (e PrecheckError) Error() string {
	if e.TransactionId.IsZero() {
		return fmt.Sprintf("precheck failed on node %s with status %s", e.Node, e.Status)
	}
	return fmt.Sprintf(
		"precheck failed on node %s with status %s for transaction %s",
		e.Node,
		e.Status,
		e.TransactionId,
	)
}

var ErrPrecheck = errors.New("precheck failed")

func (PrecheckError) Is(target error) bool {
	return target == ErrPrecheck
}

// ReceiptStatusError indicates that a transaction reached consensus but failed
type ReceiptStatusError struct {
	Status        Status
	TransactionId TransactionId
	Receipt       *TransactionReceipt
}

func (e ReceiptStatusError) Error() string {
	return fmt.Sprintf(
		"transaction %s failed at consensus with status %s",
		e.TransactionId,
		e.Status,
	)
}

var ErrReceiptStatus = errors.New("receipt status failure")

func (ReceiptStatusError) Is(target error) bool {
	return target == ErrReceiptStatus
}

// TransportError indicates a failure to exchange a request with a node
type TransportError struct {
	Node    entity.EntityId
	Address string
	Err     error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport failure for node %s (%s): %v", e.Node, e.Address, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

var ErrTransport = errors.New("transport failure")

func (TransportError) Is(target error) bool {
	return target == ErrTransport
}

// TimeoutError indicates that the execution deadline passed before a definitive answer. The
// last observed failure, if any, is available in LastErr
type TimeoutError struct {
	Attempts int
	LastNode entity.EntityId
	LastErr  error
}

func (e TimeoutError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("execution timed out after %d attempts", e.Attempts)
	}
	return fmt.Sprintf(
		"execution timed out after %d attempts, last failure: %v",
		e.Attempts,
		e.LastErr,
	)
}

// LastStatus returns the last status reported by a node, if any
func (e TimeoutError) LastStatus() (Status, bool) {
	return lastStatus(e.LastErr)
}

func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

var ErrTimeout = errors.New("execution timed out")

func (TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// MaxAttemptsExceededError indicates that every allowed attempt failed with a retryable error.
// The last observed failure is available in LastErr
type MaxAttemptsExceededError struct {
	Attempts int
	LastNode entity.EntityId
	LastErr  error
}

func (e MaxAttemptsExceededError) Error() string {
	return fmt.Sprintf(
		"giving up after %d attempts, last failure on node %s: %v",
		e.Attempts,
		e.LastNode,
		e.LastErr,
	)
}

// LastStatus returns the last status reported by a node, if any
func (e MaxAttemptsExceededError) LastStatus() (Status, bool) {
	return lastStatus(e.LastErr)
}

var ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")

func (MaxAttemptsExceededError) Is(target error) bool {
	return target == ErrMaxAttemptsExceeded
}

func lastStatus(err error) (Status, bool) {
	var precheckErr *PrecheckError
	if errors.As(err, &precheckErr) {
		return precheckErr.Status, true
	}
	var receiptErr *ReceiptStatusError
	if errors.As(err, &receiptErr) {
		return receiptErr.Status, true
	}
	return 0, false
}

// ChunkError identifies the chunk of a chunked transaction that failed. Remaining chunks were
// not sent
type ChunkError struct {
	Index         int
	Total         int
	TransactionId TransactionId
	Err           error
}

func (e ChunkError) Error() string {
	return fmt.Sprintf(
		"chunk %d of %d (transaction %s) failed: %v",
		e.Index+1,
		e.Total,
		e.TransactionId,
		e.Err,
	)
}

func (e ChunkError) Unwrap() error { return e.Err }

// MaxQueryPaymentExceededError indicates that a query costs more than the caller allows
type MaxQueryPaymentExceededError struct {
	Query           string
	Cost            uint64
	MaxQueryPayment uint64
}

func (e MaxQueryPaymentExceededError) Error() string {
	return fmt.Sprintf(
		"cost of %s (%d) exceeds max query payment (%d)",
		e.Query,
		e.Cost,
		e.MaxQueryPayment,
	)
}

var ErrMaxQueryPaymentExceeded = errors.New("max query payment exceeded")

func (MaxQueryPaymentExceededError) Is(target error) bool {
	return target == ErrMaxQueryPaymentExceeded
}
