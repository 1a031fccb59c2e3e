package eip712

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the legacy (pre-NIST padding) Keccak-256 digest of the
// concatenation of its arguments.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

func keccakHash(data ...[]byte) ethcommon.Hash {
	return ethcommon.BytesToHash(Keccak256(data...))
}

// encodeInteger encodes v as a 32-byte big-endian word. Negative values of
// signed types use two's complement. The value must fit in bits.
func encodeInteger(v *big.Int, bits int, signed bool) ([]byte, error) {
	if !signed && v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s for unsigned type", ErrValueRange, v)
	}
	if v.BitLen() > bits {
		return nil, fmt.Errorf("%w: %s exceeds %d bits", ErrValueRange, v, bits)
	}
	return math.U256Bytes(new(big.Int).Set(v)), nil
}

// encodeAddress left-pads a 20-byte address into a 32-byte word.
func encodeAddress(addr []byte) ([]byte, error) {
	if len(addr) != ethcommon.AddressLength {
		return nil, fmt.Errorf("%w: address must be %d bytes, got %d", ErrValueLength, ethcommon.AddressLength, len(addr))
	}
	out := make([]byte, 32)
	copy(out[12:], addr)
	return out, nil
}

func encodeBool(v bool) []byte {
	out := make([]byte, 32)
	if v {
		out[31] = 1
	}
	return out
}

// encodeFixedBytes right-pads a bytesN value into a 32-byte word. The value
// must be exactly size bytes long.
func encodeFixedBytes(b []byte, size int) ([]byte, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrValueLength, size, len(b))
	}
	out := make([]byte, 32)
	copy(out, b)
	return out, nil
}

// encodeDynamic hashes the raw content of a dynamic string or bytes value.
// Dynamic types are represented by their digest, never padded in place.
func encodeDynamic(content []byte) []byte {
	return Keccak256(content)
}
