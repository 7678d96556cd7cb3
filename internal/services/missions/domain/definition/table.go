package definition

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
)

// Table is an immutable snapshot of definitions and category weights.
type Table struct {
	types      *missiontype.Registry
	defs       map[string]Definition
	keys       []string
	categories []CategoryWeight
}

// NewTable indexes already compiled definitions. Keys are folded to lower
// case and must be unique.
func NewTable(types *missiontype.Registry, categories []CategoryWeight, defs []Definition) (*Table, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	t := &Table{
		types:      types,
		defs:       make(map[string]Definition, len(defs)),
		keys:       make([]string, 0, len(defs)),
		categories: slices.Clone(categories),
	}
	for _, def := range defs {
		key := strings.ToLower(strings.TrimSpace(def.Key))
		if key == "" {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeMissionDefinitionInvalid,
				"definition key is required",
				map[string]string{"Key": "", "Reason": "key is required"}, ErrInvalidDefinition)
		}
		if _, ok := t.defs[key]; ok {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeMissionDefinitionDuplicate,
				fmt.Sprintf("mission %s is defined more than once", key),
				map[string]string{"Key": key}, ErrDuplicateDefinition)
		}
		def.Key = key
		t.defs[key] = def
		t.keys = append(t.keys, key)
	}
	slices.Sort(t.keys)
	return t, nil
}

// Get returns the definition for key, ignoring case.
func (t *Table) Get(key string) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	def, ok := t.defs[strings.ToLower(strings.TrimSpace(key))]
	return def, ok
}

// Keys returns every definition key in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All returns every definition sorted by key.
func (t *Table) All() []Definition {
	if t == nil {
		return nil
	}
	all := make([]Definition, 0, len(t.keys))
	for _, key := range t.keys {
		all = append(all, t.defs[key])
	}
	return all
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Categories returns the category weights in configured order.
func (t *Table) Categories() []CategoryWeight {
	if t == nil {
		return nil
	}
	return slices.Clone(t.categories)
}

// HasCategory reports whether name is a configured category, ignoring case.
func (t *Table) HasCategory(name string) bool {
	if t == nil {
		return false
	}
	for _, category := range t.categories {
		if strings.EqualFold(category.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// InCategory returns the definitions whose category equals name, ignoring
// case, sorted by key.
func (t *Table) InCategory(name string) []Definition {
	if t == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	var defs []Definition
	for _, key := range t.keys {
		if def := t.defs[key]; strings.EqualFold(def.Category, name) {
			defs = append(defs, def)
		}
	}
	return defs
}

// Types returns the type registry the table was compiled against.
func (t *Table) Types() *missiontype.Registry {
	if t == nil {
		return nil
	}
	return t.types
}

// SuggestKey returns the closest known definition key to key.
func (t *Table) SuggestKey(key string) string {
	if t == nil {
		return ""
	}
	return Suggest(key, t.keys)
}
