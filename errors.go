package eip712

import "errors"

// Sentinel errors for schema and encoding failures. All of them indicate a
// caller-side defect (bad schema or bad value); nothing is retried or coerced.
var (
	// ErrUnknownType indicates a referenced type name is not registered, or a
	// type descriptor could not be parsed.
	ErrUnknownType = errors.New("unknown type")

	// ErrDuplicateField indicates a field name repeats within one schema.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrMissingField indicates a struct value lacks a declared field.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch indicates a value's runtime shape disagrees with its
	// declared type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValueRange indicates an integer value is negative for an unsigned
	// type or does not fit the declared bit width.
	ErrValueRange = errors.New("value out of range")

	// ErrValueLength indicates a byte value has the wrong length for its
	// fixed-size type.
	ErrValueLength = errors.New("invalid value length")

	// ErrCyclicType indicates a schema references itself, directly or through
	// other registered types.
	ErrCyclicType = errors.New("cyclic type reference")
)
