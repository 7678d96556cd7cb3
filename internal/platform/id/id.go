// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are UUIDv4 values rendered as base32 (RFC 4648) with no
// padding. The resulting strings are 26 characters long, lowercase, and safe
// to print on item lore or pass as command arguments.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// New returns a fresh random UUIDv4.
func New() (uuid.UUID, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return value, nil
}

// NewID returns a fresh identifier in its display form.
func NewID() (string, error) {
	value, err := New()
	if err != nil {
		return "", err
	}
	return Encode(value), nil
}

// Encode renders a UUID in the 26-character display form.
func Encode(value uuid.UUID) string {
	return strings.ToLower(encoding.EncodeToString(value[:]))
}

// Decode parses either the display form or the canonical hyphenated UUID form.
func Decode(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == 26 {
		decoded, err := encoding.DecodeString(strings.ToUpper(raw))
		if err != nil {
			return uuid.Nil, fmt.Errorf("decode id: %w", err)
		}
		return uuid.FromBytes(decoded)
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode id: %w", err)
	}
	return value, nil
}
