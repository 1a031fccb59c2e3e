package eip712_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"eip712"
)

func TestHashProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("digest is always 32 bytes and deterministic", prop.ForAll(
		func(b []byte) bool {
			first := eip712.Keccak256(b)
			second := eip712.Keccak256(b)
			return len(first) == 32 && bytes.Equal(first, second)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestStructHashProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	requestSchema := []eip712.Field{
		{Name: "method", Type: "string"},
		{Name: "path", Type: "string"},
		{Name: "timestamp", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
	}
	hashRequest := func(method, path string, timestamp, nonce uint64) ethcommon.Hash {
		reg := eip712.NewRegistry()
		if err := reg.Register("DataNodeRequest", requestSchema); err != nil {
			t.Fatal(err)
		}
		h, err := reg.StructHash("DataNodeRequest", eip712.TypedDataMessage{
			"method":    method,
			"path":      path,
			"timestamp": timestamp,
			"nonce":     nonce,
		})
		if err != nil {
			t.Fatal(err)
		}
		return h
	}

	properties.Property("identical schema and value hash identically across registries", prop.ForAll(
		func(method, path string, timestamp, nonce uint64) bool {
			return hashRequest(method, path, timestamp, nonce) == hashRequest(method, path, timestamp, nonce)
		},
		gen.AnyString(), gen.AnyString(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("changing any field value changes the digest", prop.ForAll(
		func(path, otherPath string, timestamp, nonce uint64) bool {
			if path == otherPath {
				return true
			}
			return hashRequest("GET", path, timestamp, nonce) != hashRequest("GET", otherPath, timestamp, nonce)
		},
		gen.AnyString(), gen.AnyString(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("nonce encodes as big-endian in the low-order word", prop.ForAll(
		func(nonce uint64) bool {
			reg := eip712.NewRegistry()
			if err := reg.Register("Nonce", []eip712.Field{{Name: "n", Type: "uint64"}}); err != nil {
				return false
			}
			withNonce, err := reg.StructHash("Nonce", eip712.TypedDataMessage{"n": nonce})
			if err != nil {
				return false
			}

			typeHash, err := reg.TypeHash("Nonce")
			if err != nil {
				return false
			}
			word := make([]byte, 32)
			binary.BigEndian.PutUint64(word[24:], nonce)
			manual := eip712.Keccak256(append(typeHash.Bytes(), word...))
			return bytes.Equal(withNonce.Bytes(), manual)
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
