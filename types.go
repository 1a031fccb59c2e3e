package eip712

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Field declares one member of a struct type: a field name and its type in
// Solidity surface syntax, e.g. {"wallet", "address"} or {"to", "Person[]"}.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type typeKind int

const (
	kindUint typeKind = iota
	kindInt
	kindBool
	kindAddress
	kindFixedBytes
	kindDynamicBytes
	kindString
	kindStruct
	kindArray
)

// typeDescriptor is the parsed form of a type string. It drives both value
// encoding and dependency discovery.
type typeDescriptor struct {
	kind typeKind
	raw  string

	bits int // kindUint, kindInt
	size int // kindFixedBytes

	elem     *typeDescriptor // kindArray
	arrayLen int             // kindArray, -1 for dynamic

	structName string // kindStruct
}

var structNameRegexp = regexp.MustCompile(`^[A-Z]\w*$`)

// parseType parses a type string into its descriptor. Array suffixes bind
// rightmost-first, so "uint256[3][]" is a dynamic array of uint256[3].
func parseType(s string) (*typeDescriptor, error) {
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		length := -1
		if inner := s[open+1 : len(s)-1]; inner != "" {
			n, err := strconv.Atoi(inner)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: %q has invalid array length", ErrUnknownType, s)
			}
			length = n
		}
		elem, err := parseType(s[:open])
		if err != nil {
			return nil, err
		}
		return &typeDescriptor{kind: kindArray, raw: s, elem: elem, arrayLen: length}, nil
	}

	switch s {
	case "address":
		return &typeDescriptor{kind: kindAddress, raw: s}, nil
	case "bool":
		return &typeDescriptor{kind: kindBool, raw: s}, nil
	case "string":
		return &typeDescriptor{kind: kindString, raw: s}, nil
	case "bytes":
		return &typeDescriptor{kind: kindDynamicBytes, raw: s}, nil
	case "uint", "int":
		kind := kindUint
		if s == "int" {
			kind = kindInt
		}
		return &typeDescriptor{kind: kind, raw: s, bits: 256}, nil
	}

	if n, ok := sizedType(s, "bytes"); ok {
		if n < 1 || n > 32 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		return &typeDescriptor{kind: kindFixedBytes, raw: s, size: n}, nil
	}
	if n, ok := sizedType(s, "uint"); ok {
		if !validBits(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		return &typeDescriptor{kind: kindUint, raw: s, bits: n}, nil
	}
	if n, ok := sizedType(s, "int"); ok {
		if !validBits(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		return &typeDescriptor{kind: kindInt, raw: s, bits: n}, nil
	}

	if structNameRegexp.MatchString(s) {
		return &typeDescriptor{kind: kindStruct, raw: s, structName: s}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func sizedType(s, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

func validBits(n int) bool {
	return n >= 8 && n <= 256 && n%8 == 0
}

// baseStruct returns the struct type name a descriptor ultimately refers to,
// unwrapping any array nesting, or "" for non-struct descriptors.
func (d *typeDescriptor) baseStruct() string {
	for d.kind == kindArray {
		d = d.elem
	}
	if d.kind == kindStruct {
		return d.structName
	}
	return ""
}
