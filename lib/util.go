package lib

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"os"
	"path/filepath"
)

// MarshalJSON() serializes a message into a JSON byte slice
func MarshalJSON(message any) ([]byte, ErrorI) {
	bz, err := json.Marshal(message)
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// MarshalJSONIndent() serializes a message into an indented JSON byte slice
func MarshalJSONIndent(message any) ([]byte, ErrorI) {
	bz, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// MarshalJSONIndentString() serializes a message into an indented JSON string
func MarshalJSONIndentString(message any) (string, ErrorI) {
	bz, err := MarshalJSONIndent(message)
	return string(bz), err
}

// UnmarshalJSON() deserializes a JSON byte slice into the specified object
func UnmarshalJSON(bz []byte, ptr any) ErrorI {
	if err := json.Unmarshal(bz, ptr); err != nil {
		return ErrJSONUnmarshal(err)
	}
	return nil
}

// NewJSONFromFile() reads a json object from file
func NewJSONFromFile(o any, dataDirPath, filePath string) ErrorI {
	bz, err := os.ReadFile(filepath.Join(dataDirPath, filePath))
	if err != nil {
		return ErrReadFile(err)
	}
	return UnmarshalJSON(bz, &o)
}

// SaveJSONToFile() saves a json object to a file
func SaveJSONToFile(j any, dataDirPath, filePath string) (err ErrorI) {
	bz, err := MarshalJSONIndent(j)
	if err != nil {
		return
	}
	if e := os.WriteFile(filepath.Join(dataDirPath, filePath), bz, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return
}

// BytesToString() converts a byte slice to a hexadecimal string
func BytesToString(b []byte) string {
	return hex.EncodeToString(b)
}

// StringToBytes() converts a hexadecimal string back into a byte slice
func StringToBytes(s string) ([]byte, ErrorI) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrStringToBytes(err)
	}
	return b, nil
}

// HexBytes is a JSON friendly byte slice rendered as a hexadecimal string
type HexBytes []byte

func (x HexBytes) String() string { return BytesToString(x) }

func (x HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

func (x *HexBytes) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	bz, e := StringToBytes(s)
	if e != nil {
		return e
	}
	*x = bz
	return
}

/*
- Iteration is considered a 'last resort' and is avoided by design at all costs due to high overhead

- Prefixes are used to allow 'grouping' and organization in a schemaless key-value database environment

- Length prefixed append is used to be able to easily separate the segments of a key

- BigEndianEncoding is used for uint64 to accommodate the 'lexicographical' sorting nature of the key-value database
*/

// JoinLenPrefix() appends the items together separated by a single byte to represent the length of the segment
func JoinLenPrefix(toAppend ...[]byte) (res []byte) {
	// for each item to append
	for _, item := range toAppend {
		if item == nil {
			continue
		}
		// store the length of the segment in a single byte
		length := []byte{byte(len(item))}
		// append to the rest of the segment
		res = append(append(res, length...), item...)
	}
	return
}

// DecodeLengthPrefixed() decodes a key that is delimited by the length of the segment in a single byte
func DecodeLengthPrefixed(key []byte) (segments [][]byte) {
	var length int
	for i := 0; i < len(key); i += length {
		if i >= len(key) {
			break
		}
		// read the length prefix
		length = int(key[i])
		i++
		if i+length > len(key) {
			panic("corrupt or incomplete key")
		}
		segments = append(segments, key[i:i+length])
	}
	return
}

/* Checked uint64 arithmetic: any overflow aborts the entire call */

// SafeAdd() adds two amounts, failing on overflow
func SafeAdd(a, b uint64) (uint64, ErrorI) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow()
	}
	return a + b, nil
}

// SafeSub() subtracts b from a, failing on underflow
func SafeSub(a, b uint64) (uint64, ErrorI) {
	if b > a {
		return 0, ErrArithmeticOverflow()
	}
	return a - b, nil
}

// FractionDenominator is the fixed-point denominator shared by all fraction parameters (quorum, threshold)
// Every fixed-point comparison must use this exact denominator to avoid rounding drift between implementations
const FractionDenominator = uint64(1_000_000_000)

// MeetsFraction() reports whether part/whole >= numerator/FractionDenominator
// The comparison is an exact big.Int cross-product: part * denominator >= numerator * whole
func MeetsFraction(part, whole, numerator uint64) bool {
	lhs := new(big.Int).Mul(new(big.Int).SetUint64(part), new(big.Int).SetUint64(FractionDenominator))
	rhs := new(big.Int).Mul(new(big.Int).SetUint64(numerator), new(big.Int).SetUint64(whole))
	return lhs.Cmp(rhs) >= 0
}

// ValidFraction() reports whether a fixed-point numerator encodes a fraction in [0,1]
func ValidFraction(numerator uint64) bool { return numerator <= FractionDenominator }
