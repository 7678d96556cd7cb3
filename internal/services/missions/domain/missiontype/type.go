package missiontype

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/target"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/wildcard"
)

// ErrInvalidTargetShape indicates a composite target with the wrong number
// of fields.
var ErrInvalidTargetShape = apperrors.New(apperrors.CodeMissionInvalidTargetShape, "target does not fit the composite shape")

// Kind enumerates the mission type variants.
type Kind uint8

const (
	// KindSimple types take no target and match every action of their id.
	KindSimple Kind = iota
	// KindEnum types match a single field against a fixed symbol set.
	KindEnum
	// KindRegistry types match a single field against an external key set.
	KindRegistry
	// KindComposite types match a delimiter-joined tuple field by field.
	KindComposite
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindEnum:
		return "enum"
	case KindRegistry:
		return "registry"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Type is a mission type: an id plus the rule deciding which targets it
// accepts.
type Type struct {
	id     string
	kind   Kind
	fields []target.Validator
}

// Simple returns an untargeted type.
func Simple(id string) Type {
	return Type{id: strings.TrimSpace(id), kind: KindSimple}
}

// Enum returns a type accepting any of symbols, ignoring case.
func Enum(id string, symbols ...string) Type {
	return Type{id: strings.TrimSpace(id), kind: KindEnum, fields: []target.Validator{target.Enum(symbols...)}}
}

// Keyed returns a type accepting keys of an external registry.
func Keyed(id, namespace string, keys target.Keys) Type {
	return Type{id: strings.TrimSpace(id), kind: KindRegistry, fields: []target.Validator{target.Registry(namespace, keys)}}
}

// Composite returns a type whose targets are tuples with one field per
// validator, joined by wildcard.Delimiter.
func Composite(id string, validators ...target.Validator) Type {
	fields := make([]target.Validator, len(validators))
	copy(fields, validators)
	return Type{id: strings.TrimSpace(id), kind: KindComposite, fields: fields}
}

// ID returns the type id as registered.
func (t Type) ID() string { return t.id }

// Kind returns the variant.
func (t Type) Kind() Kind { return t.kind }

// Targeted reports whether the type distinguishes between targets.
func (t Type) Targeted() bool { return t.kind != KindSimple }

// Arity returns the number of target fields; zero for simple types.
func (t Type) Arity() int { return len(t.fields) }

// Validate reports whether token is an acceptable target for the type.
// Simple types accept everything. Targeted types also accept the literal
// wildcard and wildcard patterns.
func (t Type) Validate(token string) bool {
	switch t.kind {
	case KindSimple:
		return true
	case KindEnum, KindRegistry:
		token = strings.TrimSpace(token)
		if wildcard.HasWildcard(token) {
			return true
		}
		return len(t.fields) == 1 && t.fields[0].Validate(token)
	case KindComposite:
		return t.Check(token) == nil
	default:
		return false
	}
}

// Check validates token and explains why it is rejected. Composite shape
// mismatches yield ErrInvalidTargetShape.
func (t Type) Check(token string) error {
	if t.kind != KindComposite {
		if t.Validate(token) {
			return nil
		}
		return invalidTarget(t, token, "")
	}
	token = strings.TrimSpace(token)
	if token == wildcard.Any {
		return nil
	}
	parts := wildcard.Split(token)
	if len(parts) != len(t.fields) {
		return apperrors.WithMetadata(apperrors.CodeMissionInvalidTargetShape,
			fmt.Sprintf("target %q has %d fields, type %s needs %d", token, len(parts), t.id, len(t.fields)),
			map[string]string{"Target": token, "Type": t.id})
	}
	for i, part := range parts {
		if wildcard.HasWildcard(part) {
			continue
		}
		if !t.fields[i].Validate(part) {
			return invalidTarget(t, token, fmt.Sprintf("field %d %q", i+1, part))
		}
	}
	return nil
}

// Normalize returns the canonical form of token. Composite targets are
// re-joined from each field's canonical form; a field whose canonical form
// would contain the delimiter is kept as written. Tokens that do not fit the
// composite shape are returned unchanged.
func (t Type) Normalize(token string) string {
	switch t.kind {
	case KindEnum, KindRegistry:
		if len(t.fields) != 1 {
			return token
		}
		return t.fields[0].Normalize(token)
	case KindComposite:
		if strings.TrimSpace(token) == wildcard.Any {
			return wildcard.Any
		}
		parts := wildcard.Split(token)
		if len(parts) != len(t.fields) {
			return token
		}
		for i, part := range parts {
			normalized := t.fields[i].Normalize(part)
			if strings.ContainsRune(normalized, wildcard.Delimiter) {
				continue
			}
			parts[i] = normalized
		}
		return wildcard.Join(parts...)
	default:
		return token
	}
}

func invalidTarget(t Type, token, detail string) error {
	msg := fmt.Sprintf("target %q is not valid for type %s", token, t.id)
	if detail != "" {
		msg += ": " + detail
	}
	return apperrors.WithMetadata(apperrors.CodeMissionInvalidTargetShape, msg,
		map[string]string{"Target": token, "Type": t.id})
}
