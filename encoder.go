package eip712

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// TypeHash returns the digest of the canonical type signature for name.
func (r *Registry) TypeHash(name string) (ethcommon.Hash, error) {
	sig, err := r.TypeSignature(name)
	if err != nil {
		return ethcommon.Hash{}, err
	}
	return keccakHash([]byte(sig)), nil
}

// StructHash returns the digest of a struct value against its registered
// schema: typeHash ‖ the 32-byte encoding of every field in schema order,
// hashed. Every declared field must be present and no extra fields are
// allowed.
func (r *Registry) StructHash(name string, value TypedDataMessage) (ethcommon.Hash, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.structHash(name, value)
}

func (r *Registry) structHash(name string, data map[string]any) (ethcommon.Hash, error) {
	sig, err := r.typeSignature(name)
	if err != nil {
		return ethcommon.Hash{}, err
	}
	s := r.types[name]

	declared := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		declared[f.Name] = true
	}
	for k := range data {
		if !declared[k] {
			return ethcommon.Hash{}, fmt.Errorf("%w: unexpected field %q in value of type %q", ErrTypeMismatch, k, name)
		}
	}

	enc := Keccak256([]byte(sig))
	for i, f := range s.fields {
		v, ok := data[f.Name]
		if !ok {
			return ethcommon.Hash{}, fmt.Errorf("%w: %q in value of type %q", ErrMissingField, f.Name, name)
		}
		word, err := r.encodeValue(s.descs[i], v)
		if err != nil {
			return ethcommon.Hash{}, fmt.Errorf("field %q of %q: %w", f.Name, name, err)
		}
		enc = append(enc, word...)
	}
	return keccakHash(enc), nil
}

// encodeValue produces the 32-byte encoding of a single value. Caller holds
// at least a read lock on the registry.
func (r *Registry) encodeValue(desc *typeDescriptor, value any) ([]byte, error) {
	switch desc.kind {
	case kindArray:
		items, ok := value.([]any)
		if !ok {
			return nil, mismatchError(desc, value)
		}
		if desc.arrayLen >= 0 && len(items) != desc.arrayLen {
			return nil, fmt.Errorf("%w: %q expects %d elements, got %d", ErrTypeMismatch, desc.raw, desc.arrayLen, len(items))
		}
		var enc []byte
		for i, item := range items {
			word, err := r.encodeValue(desc.elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			enc = append(enc, word...)
		}
		// Arrays are hashed whether their length is fixed or dynamic.
		return Keccak256(enc), nil

	case kindStruct:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, mismatchError(desc, value)
		}
		h, err := r.structHash(desc.structName, m)
		if err != nil {
			return nil, err
		}
		return h.Bytes(), nil

	case kindString:
		s, ok := value.(string)
		if !ok {
			return nil, mismatchError(desc, value)
		}
		return encodeDynamic([]byte(s)), nil

	case kindDynamicBytes:
		b, err := toBytes(value)
		if err != nil {
			return nil, mismatchError(desc, value)
		}
		return encodeDynamic(b), nil

	case kindFixedBytes:
		b, err := toBytes(value)
		if err != nil {
			return nil, mismatchError(desc, value)
		}
		return encodeFixedBytes(b, desc.size)

	case kindAddress:
		switch v := value.(type) {
		case ethcommon.Address:
			return encodeAddress(v.Bytes())
		case *ethcommon.Address:
			return encodeAddress(v.Bytes())
		case [20]byte:
			return encodeAddress(v[:])
		case []byte:
			return encodeAddress(v)
		case string:
			if !ethcommon.IsHexAddress(v) {
				return nil, mismatchError(desc, value)
			}
			return encodeAddress(ethcommon.HexToAddress(v).Bytes())
		}
		return nil, mismatchError(desc, value)

	case kindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatchError(desc, value)
		}
		return encodeBool(b), nil

	case kindUint, kindInt:
		n, err := parseInteger(value)
		if err != nil {
			return nil, mismatchError(desc, value)
		}
		return encodeInteger(n, desc.bits, desc.kind == kindInt)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, desc.raw)
}

func mismatchError(desc *typeDescriptor, value any) error {
	return fmt.Errorf("%w: value %v does not match type %q", ErrTypeMismatch, value, desc.raw)
}

// parseInteger accepts the integer shapes other stacks hand us: big and
// uint256 pointers, native Go integers, JSON numbers and decimal or 0x-hex
// strings.
func parseInteger(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case *uint256.Int:
		return v.ToBig(), nil
	case *math.HexOrDecimal256:
		return (*big.Int)(v), nil
	case math.HexOrDecimal256:
		return (*big.Int)(&v), nil
	case string:
		var n math.HexOrDecimal256
		if err := n.UnmarshalText([]byte(v)); err != nil {
			return nil, err
		}
		return (*big.Int)(&n), nil
	case float64:
		if float64(int64(v)) != v {
			return nil, fmt.Errorf("non-integral number %v", v)
		}
		return big.NewInt(int64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, fmt.Errorf("unsupported integer value %v", value)
}

// toBytes coerces the byte shapes accepted for bytes and bytesN values.
func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	case ethcommon.Hash:
		return v.Bytes(), nil
	case [32]byte:
		return v[:], nil
	case string:
		return hexutil.Decode(v)
	}
	return nil, fmt.Errorf("unsupported byte value %v", value)
}
