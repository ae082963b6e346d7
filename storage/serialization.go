// Copyright 2026 Fieldside Labs
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


package storage

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Ledger values are serialized by hand against the mus-go primitives.
// Content hashes travel as hex strings so ledger dumps stay greppable;
// timestamps travel as microsecond unix values.

// TransferStateMUS serializes TransferState values.
var TransferStateMUS = transferStateSer{}

type transferStateSer struct{}

func (transferStateSer) Marshal(state TransferState, bs []byte) (n int) {
	n = ord.String.Marshal(state.SourceURL, bs)
	n += ord.String.Marshal(state.LocalPath, bs[n:])
	n += ord.String.Marshal(state.DurableURL, bs[n:])
	n += ord.String.Marshal(hex.EncodeToString(state.ContentHash), bs[n:])
	n += varint.Int64.Marshal(state.TransferredAt.UnixMicro(), bs[n:])
	return n
}

func (transferStateSer) Unmarshal(bs []byte) (state TransferState, n int, err error) {
	var n1 int

	state.SourceURL, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}

	state.LocalPath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	state.DurableURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var hexHash string
	hexHash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	state.ContentHash, err = hex.DecodeString(hexHash)
	if err != nil {
		err = fmt.Errorf("%w: content hash: %w", ErrSerializationFailed, err)
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	state.TransferredAt = time.UnixMicro(micros).UTC()
	return
}

func (s transferStateSer) Size(state TransferState) (size int) {
	size = ord.String.Size(state.SourceURL)
	size += ord.String.Size(state.LocalPath)
	size += ord.String.Size(state.DurableURL)
	size += ord.String.Size(hex.EncodeToString(state.ContentHash))
	size += varint.Int64.Size(state.TransferredAt.UnixMicro())
	return size
}

func (s transferStateSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 4 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// FingerprintStateMUS serializes FingerprintState values.
var FingerprintStateMUS = fingerprintStateSer{}

type fingerprintStateSer struct{}

func (fingerprintStateSer) Marshal(state FingerprintState, bs []byte) (n int) {
	n = ord.String.Marshal(hex.EncodeToString(state.Sum), bs)
	n += varint.Int64.Marshal(state.RecordedAt.UnixMicro(), bs[n:])
	return n
}

func (fingerprintStateSer) Unmarshal(bs []byte) (state FingerprintState, n int, err error) {
	var hexSum string
	hexSum, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	state.Sum, err = hex.DecodeString(hexSum)
	if err != nil {
		err = fmt.Errorf("%w: fingerprint: %w", ErrSerializationFailed, err)
		return
	}

	var n1 int
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	state.RecordedAt = time.UnixMicro(micros).UTC()
	return
}

func (fingerprintStateSer) Size(state FingerprintState) (size int) {
	size = ord.String.Size(hex.EncodeToString(state.Sum))
	size += varint.Int64.Size(state.RecordedAt.UnixMicro())
	return size
}

func (fingerprintStateSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalTransferState serializes a TransferState to bytes.
func MarshalTransferState(state *TransferState) []byte {
	buf := make([]byte, TransferStateMUS.Size(*state))
	TransferStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalTransferState deserializes a TransferState from bytes.
func UnmarshalTransferState(data []byte) (*TransferState, error) {
	state, _, err := TransferStateMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// MarshalFingerprintState serializes a FingerprintState to bytes.
func MarshalFingerprintState(state *FingerprintState) []byte {
	buf := make([]byte, FingerprintStateMUS.Size(*state))
	FingerprintStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalFingerprintState deserializes a FingerprintState from bytes.
func UnmarshalFingerprintState(data []byte) (*FingerprintState, error) {
	state, _, err := FingerprintStateMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
