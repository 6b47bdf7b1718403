package lib

import (
	"github.com/fxamacker/cbor/v2"
)

/*
	This file implements the binary codec for every persisted record.

	All state values are length-prefixed, schema-versioned binary records: a single
	leading byte carries the record schema version and the remainder is the CBOR
	encoding of the record. Core deterministic encoding is used so that any two
	conforming implementations produce byte-identical state for the same inputs.
*/

// RecordSchemaVersion is the current schema version written ahead of every record
const RecordSchemaVersion byte = 1

// BinaryCodec is an interface model that defines the requirements for binary encoding and decoding
// A binary encoder converts data into a compact, non-human-readable binary format, which is highly
// efficient in terms of both storage size and speed for serialization and deserialization
type BinaryCodec interface {
	Marshal(message any) ([]byte, ErrorI)
	Unmarshal(data []byte, ptr any) ErrorI
}

// ensure the CBOR codec implements the BinaryCodec interface
var _ BinaryCodec = &CBOR{}

// CBOR is an encoding implementation backed by deterministic CBOR
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewBinaryCodec() constructs the deterministic CBOR codec
func NewBinaryCodec() *CBOR {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
	return &CBOR{enc: enc, dec: dec}
}

// Marshal() converts a record to schema-versioned bytes
func (c *CBOR) Marshal(message any) ([]byte, ErrorI) {
	bz, err := c.enc.Marshal(message)
	if err != nil {
		return nil, ErrMarshal(err)
	}
	return append([]byte{RecordSchemaVersion}, bz...), nil
}

// Unmarshal() converts schema-versioned bytes back to a record
func (c *CBOR) Unmarshal(data []byte, ptr any) ErrorI {
	if len(data) == 0 {
		return ErrTruncatedRecord()
	}
	if data[0] != RecordSchemaVersion {
		return ErrUnknownSchemaVersion(data[0])
	}
	if err := c.dec.Unmarshal(data[1:], ptr); err != nil {
		return ErrUnmarshal(err)
	}
	return nil
}

// codec is the package level instance used by the Marshal/Unmarshal helpers
var codec = NewBinaryCodec()

// Marshal() serializes a record into a schema-versioned byte slice
func Marshal(message any) ([]byte, ErrorI) {
	return codec.Marshal(message)
}

// Unmarshal() deserializes a schema-versioned byte slice into a record
func Unmarshal(data []byte, ptr any) ErrorI {
	if data == nil || ptr == nil {
		return nil
	}
	return codec.Unmarshal(data, ptr)
}
