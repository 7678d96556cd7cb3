package missiontype

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
)

var (
	// ErrTypeIDRequired indicates a type registered without an id.
	ErrTypeIDRequired = apperrors.New(apperrors.CodeMissionTypeIDEmpty, "mission type id is required")
	// ErrDuplicateType indicates a type id registered twice.
	ErrDuplicateType = apperrors.New(apperrors.CodeMissionTypeDuplicate, "mission type already registered")
	// ErrRegistryFrozen indicates registration after Freeze.
	ErrRegistryFrozen = apperrors.New(apperrors.CodeMissionRegistryFrozen, "mission type registry is frozen")
	// ErrBuilderRequired indicates a nil builder.
	ErrBuilderRequired = errors.New("mission type builder is required")
)

// CanonicalID folds a type id for case-insensitive comparison.
func CanonicalID(id string) string {
	return cases.Fold().String(strings.TrimSpace(id))
}

// Builder collects mission types during startup.
type Builder struct {
	mu     sync.Mutex
	types  map[string]Type
	frozen bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{types: make(map[string]Type)}
}

// Register adds types to the builder. Either every type in the batch is
// added or none is.
func (b *Builder) Register(types ...Type) error {
	if b == nil {
		return ErrBuilderRequired
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return ErrRegistryFrozen
	}

	staged := make(map[string]Type, len(types))
	for _, t := range types {
		key := CanonicalID(t.id)
		if key == "" {
			return ErrTypeIDRequired
		}
		_, existing := b.types[key]
		_, batched := staged[key]
		if existing || batched {
			return apperrors.WrapWithMetadata(apperrors.CodeMissionTypeDuplicate,
				fmt.Sprintf("mission type %q already registered", t.id),
				map[string]string{"Type": t.id}, ErrDuplicateType)
		}
		staged[key] = t
	}
	for key, t := range staged {
		b.types[key] = t
	}
	return nil
}

// Freeze ends registration and returns the immutable registry. Calling
// Freeze again returns a registry with the same contents.
func (b *Builder) Freeze() *Registry {
	if b == nil {
		return &Registry{types: map[string]Type{}}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true

	types := make(map[string]Type, len(b.types))
	ids := make([]string, 0, len(b.types))
	for key, t := range b.types {
		types[key] = t
		ids = append(ids, key)
	}
	slices.Sort(ids)
	return &Registry{types: types, ids: ids}
}

// Registry is a frozen set of mission types.
type Registry struct {
	types map[string]Type
	ids   []string
}

// Get returns the type registered under id, ignoring case.
func (r *Registry) Get(id string) (Type, bool) {
	if r == nil {
		return Type{}, false
	}
	t, ok := r.types[CanonicalID(id)]
	return t, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns the canonical ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ids)
}

// All returns every registered type sorted by canonical id.
func (r *Registry) All() []Type {
	if r == nil {
		return nil
	}
	all := make([]Type, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, r.types[id])
	}
	return all
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}
