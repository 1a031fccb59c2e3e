// Package eip712 implements deterministic hashing of typed structured data
// per EIP-712: schema registration, canonical type signatures, struct hashing
// and the final 0x19 0x01 signing digest. It produces hashes only; key
// handling, signing and transport belong to its consumers.
// See https://eips.ethereum.org/EIPS/eip-712.
package eip712

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TypedDataMessage is a struct value: field name to value.
type TypedDataMessage = map[string]any

// Domain binds a signature to an application context. All fields are
// optional; the EIP712Domain schema is built from whichever fields are set,
// in the canonical order name, version, chainId, verifyingContract, salt.
type Domain struct {
	Name              string            `json:"name,omitempty"`
	Version           string            `json:"version,omitempty"`
	ChainID           *uint256.Int      `json:"chainId,omitempty"`
	VerifyingContract ethcommon.Address `json:"verifyingContract,omitempty"`
	Salt              ethcommon.Hash    `json:"salt,omitempty"`
}

// Fields returns the EIP712Domain schema for the present field subset.
func (d *Domain) Fields() []Field {
	var fields []Field
	if d.Name != "" {
		fields = append(fields, Field{Name: "name", Type: "string"})
	}
	if d.Version != "" {
		fields = append(fields, Field{Name: "version", Type: "string"})
	}
	if d.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: "uint256"})
	}
	if d.VerifyingContract != (ethcommon.Address{}) {
		fields = append(fields, Field{Name: "verifyingContract", Type: "address"})
	}
	if d.Salt != (ethcommon.Hash{}) {
		fields = append(fields, Field{Name: "salt", Type: "bytes32"})
	}
	return fields
}

// Map returns the domain as a struct value matching Fields.
func (d *Domain) Map() TypedDataMessage {
	m := TypedDataMessage{}
	if d.Name != "" {
		m["name"] = d.Name
	}
	if d.Version != "" {
		m["version"] = d.Version
	}
	if d.ChainID != nil {
		m["chainId"] = d.ChainID
	}
	if d.VerifyingContract != (ethcommon.Address{}) {
		m["verifyingContract"] = d.VerifyingContract
	}
	if d.Salt != (ethcommon.Hash{}) {
		m["salt"] = d.Salt
	}
	return m
}

// DomainSeparator computes the struct hash of the domain under its
// dynamically built EIP712Domain schema.
func DomainSeparator(domain *Domain) (ethcommon.Hash, error) {
	fields := domain.Fields()
	if len(fields) == 0 {
		return ethcommon.Hash{}, fmt.Errorf("%w: domain has no fields set", ErrMissingField)
	}
	reg := NewRegistry()
	if err := reg.Register("EIP712Domain", fields); err != nil {
		return ethcommon.Hash{}, err
	}
	return reg.StructHash("EIP712Domain", domain.Map())
}

// EncodeForSigning returns the exact 66-byte preimage of the signing hash:
// 0x19 0x01 ‖ domainSeparator ‖ structHash. The two prefix bytes are
// mandated by the standard and not configurable.
func EncodeForSigning(domainSeparator, structHash ethcommon.Hash) []byte {
	raw := make([]byte, 0, 66)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator.Bytes()...)
	raw = append(raw, structHash.Bytes()...)
	return raw
}

// SigningHash computes the digest handed to a signing or verification
// collaborator: the hash of the 0x19 0x01 preimage over the domain separator
// and the struct hash of message against its registered primary type.
func SigningHash(reg *Registry, domain *Domain, primaryType string, message TypedDataMessage) (ethcommon.Hash, error) {
	domainSeparator, err := DomainSeparator(domain)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	structHash, err := reg.StructHash(primaryType, message)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return keccakHash(EncodeForSigning(domainSeparator, structHash)), nil
}

// TypedData is the eth_signTypedData wire envelope: type schemas, the
// primary type name, domain and message. It decodes directly from the JSON
// payloads other stacks produce.
type TypedData struct {
	Types       map[string][]Field `json:"types"`
	PrimaryType string             `json:"primaryType"`
	Domain      Domain             `json:"domain"`
	Message     TypedDataMessage   `json:"message"`
}

// Registry builds a registry from the envelope's type schemas. The
// EIP712Domain schema, when present, is skipped; the domain is hashed
// against its own presence-derived schema.
func (t *TypedData) Registry() (*Registry, error) {
	reg := NewRegistry()
	for name, fields := range t.Types {
		if name == "EIP712Domain" {
			continue
		}
		if err := reg.Register(name, fields); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// DomainSeparator hashes the envelope's domain. An explicit EIP712Domain
// schema in Types takes precedence over the presence-derived one.
func (t *TypedData) DomainSeparator() (ethcommon.Hash, error) {
	if fields, ok := t.Types["EIP712Domain"]; ok {
		reg := NewRegistry()
		if err := reg.Register("EIP712Domain", fields); err != nil {
			return ethcommon.Hash{}, err
		}
		return reg.StructHash("EIP712Domain", t.Domain.Map())
	}
	return DomainSeparator(&t.Domain)
}

// SigningHash computes the envelope's final signing digest.
func (t *TypedData) SigningHash() (ethcommon.Hash, error) {
	reg, err := t.Registry()
	if err != nil {
		return ethcommon.Hash{}, err
	}
	domainSeparator, err := t.DomainSeparator()
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	structHash, err := reg.StructHash(t.PrimaryType, t.Message)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return keccakHash(EncodeForSigning(domainSeparator, structHash)), nil
}
