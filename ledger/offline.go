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
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/goledger/cbor"
	"github.com/blinklabs-io/goledger/keys"
	"golang.org/x/crypto/blake2b"
)

// SigningRequestVersion is the version of the signing request format produced by this package
const SigningRequestVersion = 1

// SigningRequest carries the frozen bodies of a transaction to a party that signs offline.
// It is exchanged as CBOR
type SigningRequest struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Version       uint
	TransactionId string
	Kind          string
	Bodies        []SigningRequestBody
}

// SigningRequestBody is one per-node body of a signing request
type SigningRequestBody struct {
	cbor.StructAsArray
	NodeAccountId string
	BodyBytes     []byte
}

func (r *SigningRequest) UnmarshalCBOR(cborData []byte) error {
	return r.UnmarshalCborGeneric(cborData, r)
}

func (r *SigningRequest) MarshalCBOR() ([]byte, error) {
	if r.Cbor() != nil {
		return r.Cbor(), nil
	}
	return cbor.EncodeGeneric(r)
}

// NewSigningRequestFromCbor decodes a signing request
func NewSigningRequestFromCbor(cborData []byte) (*SigningRequest, error) {
	var ret SigningRequest
	if _, err := cbor.Decode(cborData, &ret); err != nil {
		return nil, err
	}
	if ret.Version != SigningRequestVersion {
		return nil, fmt.Errorf("unsupported signing request version %d", ret.Version)
	}
	return &ret, nil
}

// Fingerprint returns the blake2b-256 hash of the CBOR form of the request
func (r *SigningRequest) Fingerprint() ([]byte, error) {
	cborData, err := cbor.Encode(r)
	if err != nil {
		return nil, err
	}
	tmp := blake2b.Sum256(cborData)
	return tmp[:], nil
}

// Sign signs every body of the request and returns the resulting bundle
func (r *SigningRequest) Sign(
	ctx context.Context,
	publicKey keys.PublicKey,
	signer keys.Signer,
) (*SignatureBundle, error) {
	fingerprint, err := r.Fingerprint()
	if err != nil {
		return nil, err
	}
	ret := &SignatureBundle{
		RequestFingerprint: fingerprint,
		Algorithm:          uint8(publicKey.Algorithm()),
		PublicKey:          publicKey.Bytes(),
	}
	for _, body := range r.Bodies {
		sig, err := signer(ctx, body.BodyBytes)
		if err != nil {
			return nil, err
		}
		ret.Signatures = append(ret.Signatures, sig)
	}
	return ret, nil
}

// SignatureBundle holds the signatures of one key over every body of a signing request
type SignatureBundle struct {
	cbor.StructAsArray
	RequestFingerprint []byte
	Algorithm          uint8
	PublicKey          []byte
	Signatures         [][]byte
}

// NewSignatureBundleFromCbor decodes a signature bundle
func NewSignatureBundleFromCbor(cborData []byte) (*SignatureBundle, error) {
	var ret SignatureBundle
	if _, err := cbor.Decode(cborData, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (b *SignatureBundle) Cbor() ([]byte, error) {
	return cbor.Encode(b)
}

func (b *SignatureBundle) String() string {
	return fmt.Sprintf(
		"SignatureBundle { RequestFingerprint: %s, PublicKey: %s, Signatures: %d }",
		hex.EncodeToString(b.RequestFingerprint),
		hex.EncodeToString(b.PublicKey),
		len(b.Signatures),
	)
}

// SigningRequest exports the bodies of a frozen transaction for offline signing
func (t *transaction) SigningRequest() (*SigningRequest, error) {
	if !t.frozen {
		return nil, NewValidationError(
			ValidationErrorTypeSignature,
			"transaction must be frozen before it can be signed offline",
			nil,
			nil,
		)
	}
	ret := &SigningRequest{
		Version:       SigningRequestVersion,
		TransactionId: t.transactionId.String(),
		Kind:          t.data.kindName(),
	}
	for _, body := range t.bodies() {
		ret.Bodies = append(ret.Bodies, SigningRequestBody{
			NodeAccountId: body.nodeAccountId.String(),
			BodyBytes:     body.bodyBytes,
		})
	}
	return ret, nil
}

// AddSignatureBundle attaches the signatures of a bundle produced from this transaction's
// signing request. Every signature is verified against its body
func (t *transaction) AddSignatureBundle(bundle *SignatureBundle) error {
	req, err := t.SigningRequest()
	if err != nil {
		return err
	}
	fingerprint, err := req.Fingerprint()
	if err != nil {
		return err
	}
	if !bytes.Equal(fingerprint, bundle.RequestFingerprint) {
		return NewValidationError(
			ValidationErrorTypeSignature,
			"signature bundle was produced for a different signing request",
			map[string]any{
				"expected": hex.EncodeToString(fingerprint),
				"actual":   hex.EncodeToString(bundle.RequestFingerprint),
			},
			nil,
		)
	}
	publicKey, err := keys.NewPublicKey(keys.Algorithm(bundle.Algorithm), bundle.PublicKey)
	if err != nil {
		return NewValidationError(
			ValidationErrorTypeSignature,
			"signature bundle has an invalid public key",
			nil,
			err,
		)
	}
	return t.addSignatures(publicKey, bundle.Signatures)
}
