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

import "strconv"

// Status is a response code reported by a node, either at precheck or in a receipt
type Status int32

const (
	StatusOk                            Status = 0
	StatusInvalidTransaction            Status = 1
	StatusPayerAccountNotFound          Status = 2
	StatusInvalidNodeAccount            Status = 3
	StatusTransactionExpired            Status = 4
	StatusInvalidTransactionStart       Status = 5
	StatusInvalidTransactionDuration    Status = 6
	StatusInvalidSignature              Status = 7
	StatusMemoTooLong                   Status = 8
	StatusInsufficientTxFee             Status = 9
	StatusInsufficientPayerBalance      Status = 10
	StatusDuplicateTransaction          Status = 11
	StatusBusy                          Status = 12
	StatusNotSupported                  Status = 13
	StatusInvalidFileId                 Status = 14
	StatusInvalidAccountId              Status = 15
	StatusInvalidContractId             Status = 16
	StatusInvalidTransactionId          Status = 17
	StatusReceiptNotFound               Status = 18
	StatusRecordNotFound                Status = 19
	StatusInvalidSolidityId             Status = 20
	StatusUnknown                       Status = 21
	StatusSuccess                       Status = 22
	StatusFailInvalid                   Status = 23
	StatusFailFee                       Status = 24
	StatusFailBalance                   Status = 25
	StatusKeyRequired                   Status = 26
	StatusBadEncoding                   Status = 27
	StatusInsufficientAccountBalance    Status = 28
	StatusInvalidReceivingNodeAccount   Status = 35
	StatusMissingQueryHeader            Status = 36
	StatusInvalidKeyEncoding            Status = 38
	StatusInvalidQueryHeader            Status = 41
	StatusInvalidFeeSubmitted           Status = 42
	StatusInvalidPayerSignature         Status = 43
	StatusFileContentEmpty              Status = 47
	StatusInvalidAccountAmounts         Status = 48
	StatusEmptyTransactionBody          Status = 49
	StatusInvalidTransactionBody        Status = 50
	StatusAccountIdDoesNotExist         Status = 60
	StatusTransactionOversize           Status = 64
	StatusPlatformNotActive             Status = 67
	StatusKeyPrefixMismatch             Status = 68
	StatusPlatformTransactionNotCreated Status = 69
	StatusInvalidRenewalPeriod          Status = 70
	StatusInvalidPayerAccountId         Status = 71
	StatusAccountDeleted                Status = 72
	StatusFileDeleted                   Status = 73
	StatusAccountRepeatedInAmounts      Status = 74
	StatusAutoRenewDurationNotInRange   Status = 81
	StatusInvalidInitialBalance         Status = 85
	StatusPayerAccountUnauthorized      Status = 89
	StatusTransferListSizeExceeded      Status = 92
	StatusMaxFileSizeExceeded           Status = 112
	StatusReceiverSigRequired           Status = 113
	StatusInvalidTopicId                Status = 150
	StatusInvalidSubmitKey              Status = 156
	StatusUnauthorized                  Status = 157
	StatusInvalidTopicMessage           Status = 158
	StatusTopicExpired                  Status = 162
	StatusInvalidChunkNumber            Status = 163
	StatusInvalidChunkTransactionId     Status = 164
)

var statusNames = map[Status]string{
	StatusOk:                            "OK",
	StatusInvalidTransaction:            "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:          "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:            "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:            "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:       "INVALID_TRANSACTION_START",
	StatusInvalidTransactionDuration:    "INVALID_TRANSACTION_DURATION",
	StatusInvalidSignature:              "INVALID_SIGNATURE",
	StatusMemoTooLong:                   "MEMO_TOO_LONG",
	StatusInsufficientTxFee:             "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance:      "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:          "DUPLICATE_TRANSACTION",
	StatusBusy:                          "BUSY",
	StatusNotSupported:                  "NOT_SUPPORTED",
	StatusInvalidFileId:                 "INVALID_FILE_ID",
	StatusInvalidAccountId:              "INVALID_ACCOUNT_ID",
	StatusInvalidContractId:             "INVALID_CONTRACT_ID",
	StatusInvalidTransactionId:          "INVALID_TRANSACTION_ID",
	StatusReceiptNotFound:               "RECEIPT_NOT_FOUND",
	StatusRecordNotFound:                "RECORD_NOT_FOUND",
	StatusInvalidSolidityId:             "INVALID_SOLIDITY_ID",
	StatusUnknown:                       "UNKNOWN",
	StatusSuccess:                       "SUCCESS",
	StatusFailInvalid:                   "FAIL_INVALID",
	StatusFailFee:                       "FAIL_FEE",
	StatusFailBalance:                   "FAIL_BALANCE",
	StatusKeyRequired:                   "KEY_REQUIRED",
	StatusBadEncoding:                   "BAD_ENCODING",
	StatusInsufficientAccountBalance:    "INSUFFICIENT_ACCOUNT_BALANCE",
	StatusInvalidReceivingNodeAccount:   "INVALID_RECEIVING_NODE_ACCOUNT",
	StatusMissingQueryHeader:            "MISSING_QUERY_HEADER",
	StatusInvalidKeyEncoding:            "INVALID_KEY_ENCODING",
	StatusInvalidQueryHeader:            "INVALID_QUERY_HEADER",
	StatusInvalidFeeSubmitted:           "INVALID_FEE_SUBMITTED",
	StatusInvalidPayerSignature:         "INVALID_PAYER_SIGNATURE",
	StatusFileContentEmpty:              "FILE_CONTENT_EMPTY",
	StatusInvalidAccountAmounts:         "INVALID_ACCOUNT_AMOUNTS",
	StatusEmptyTransactionBody:          "EMPTY_TRANSACTION_BODY",
	StatusInvalidTransactionBody:        "INVALID_TRANSACTION_BODY",
	StatusAccountIdDoesNotExist:         "ACCOUNT_ID_DOES_NOT_EXIST",
	StatusTransactionOversize:           "TRANSACTION_OVERSIZE",
	StatusPlatformNotActive:             "PLATFORM_NOT_ACTIVE",
	StatusKeyPrefixMismatch:             "KEY_PREFIX_MISMATCH",
	StatusPlatformTransactionNotCreated: "PLATFORM_TRANSACTION_NOT_CREATED",
	StatusInvalidRenewalPeriod:          "INVALID_RENEWAL_PERIOD",
	StatusInvalidPayerAccountId:         "INVALID_PAYER_ACCOUNT_ID",
	StatusAccountDeleted:                "ACCOUNT_DELETED",
	StatusFileDeleted:                   "FILE_DELETED",
	StatusAccountRepeatedInAmounts:      "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	StatusAutoRenewDurationNotInRange:   "AUTORENEW_DURATION_NOT_IN_RANGE",
	StatusInvalidInitialBalance:         "INVALID_INITIAL_BALANCE",
	StatusPayerAccountUnauthorized:      "PAYER_ACCOUNT_UNAUTHORIZED",
	StatusTransferListSizeExceeded:      "TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	StatusMaxFileSizeExceeded:           "MAX_FILE_SIZE_EXCEEDED",
	StatusReceiverSigRequired:           "RECEIVER_SIG_REQUIRED",
	StatusInvalidTopicId:                "INVALID_TOPIC_ID",
	StatusInvalidSubmitKey:              "INVALID_SUBMIT_KEY",
	StatusUnauthorized:                  "UNAUTHORIZED",
	StatusInvalidTopicMessage:           "INVALID_TOPIC_MESSAGE",
	StatusTopicExpired:                  "TOPIC_EXPIRED",
	StatusInvalidChunkNumber:            "INVALID_CHUNK_NUMBER",
	StatusInvalidChunkTransactionId:     "INVALID_CHUNK_TRANSACTION_ID",
}

func (s Status) String() string {
	if ret, ok := statusNames[s]; ok {
		return ret
	}
	return "STATUS_" + strconv.Itoa(int(s))
}

// IsTransient reports whether the status indicates the node couldn't handle the request right
// now, as opposed to a verdict on the request itself
func (s Status) IsTransient() bool {
	switch s {
	case StatusBusy, StatusPlatformNotActive, StatusPlatformTransactionNotCreated:
		return true
	default:
		return false
	}
}
