package gov

import (
	"encoding/binary"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* key.go contains the prefix key logic for the underlying store */

var (
	configPrefix = []byte{1} // store key prefix for the governance configuration
	statePrefix  = []byte{2} // store key prefix for the global state record
	pollPrefix   = []byte{3} // store key prefix for poll records
	bankPrefix   = []byte{4} // store key prefix for staker accounts
)

func ConfigKey() []byte   { return lib.JoinLenPrefix(configPrefix) }
func StateKey() []byte    { return lib.JoinLenPrefix(statePrefix) }
func PollPrefix() []byte  { return lib.JoinLenPrefix(pollPrefix) }
func BankPrefix() []byte  { return lib.JoinLenPrefix(bankPrefix) }
func KeyForPoll(id uint64) []byte {
	return lib.JoinLenPrefix(pollPrefix, formatUint64(id))
}
func KeyForStaker(addr crypto.AddressI) []byte {
	return lib.JoinLenPrefix(bankPrefix, addr.Bytes())
}

// IdFromPollKey() extracts the poll id out of a poll store key
func IdFromPollKey(k []byte) (uint64, lib.ErrorI) {
	segments := lib.DecodeLengthPrefixed(k)
	if len(segments) != 2 || len(segments[1]) != 8 {
		return 0, ErrInvalidKey(k)
	}
	return binary.BigEndian.Uint64(segments[1]), nil
}

// AddressFromStakerKey() extracts the staker address out of a bank store key
func AddressFromStakerKey(k []byte) (crypto.Address, lib.ErrorI) {
	segments := lib.DecodeLengthPrefixed(k)
	if len(segments) != 2 || len(segments[1]) != crypto.AddressSize {
		return nil, ErrInvalidKey(k)
	}
	return crypto.NewAddress(segments[1]), nil
}

func formatUint64(u uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return b
}
