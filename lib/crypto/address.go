package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

// Address is the 20 byte identifier of an account or contract on the host ledger
// key derivation and signature verification belong to the host; this module only routes by address
type Address []byte

var _ AddressI = &Address{}

const (
	AddressSize = 20
)

// AddressI is the interface model of a ledger address
type AddressI interface {
	Bytes() []byte
	String() string
	Equals(AddressI) bool
}

func (a *Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }
func (a *Address) Bytes() []byte                { return (*a)[:] }
func (a *Address) String() string               { return hex.EncodeToString(a.Bytes()) }
func (a *Address) Equals(e AddressI) bool {
	if a == nil || e == nil {
		return false
	}
	return bytes.Equal(a.Bytes(), e.Bytes())
}

func (a *Address) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return
	}
	*a = bz
	return
}

// NewAddress() converts a byte slice into an Address
func NewAddress(bz []byte) Address { return bz }

// NewAddressFromBytes() converts a byte slice into an AddressI
func NewAddressFromBytes(bz []byte) AddressI {
	if bz == nil {
		return nil
	}
	a := Address(bz)
	return &a
}

// NewAddressFromString() converts a hex string into an AddressI
func NewAddressFromString(hexString string) (AddressI, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	return NewAddressFromBytes(bz), nil
}
