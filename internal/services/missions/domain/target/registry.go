package target

import "strings"

// NamespaceSeparator splits a registry key into namespace and name.
const NamespaceSeparator = ":"

// Keys is an externally supplied open set of registry keys.
type Keys interface {
	Has(key string) bool
}

// KeySet is a Keys backed by a map. Keys are stored lower-cased.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from keys.
func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

type registryValidator struct {
	namespace string
	keys      Keys
}

// Registry returns a validator matching lower-cased tokens against keys.
// A bare name without namespace is resolved in the default namespace.
func Registry(namespace string, keys Keys) Validator {
	return registryValidator{
		namespace: strings.ToLower(strings.TrimSpace(namespace)),
		keys:      keys,
	}
}

func (v registryValidator) Validate(token string) bool {
	if v.keys == nil {
		return false
	}
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return false
	}
	if v.keys.Has(key) {
		return true
	}
	if qualified, ok := v.qualify(key); ok {
		return v.keys.Has(qualified)
	}
	return false
}

// Normalize rewrites a bare name into namespace:name when that key exists.
// Wildcard patterns other than the lone wildcard are qualified with the
// default namespace when they carry none, so "fire*" becomes
// "minecraft:fire*". Namespaced or unknown tokens are only trimmed and
// lower-cased.
func (v registryValidator) Normalize(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" || key == "*" {
		return token
	}
	if strings.Contains(key, "*") {
		if qualified, ok := v.qualify(key); ok {
			return qualified
		}
		return key
	}
	if v.keys != nil && !v.keys.Has(key) {
		if qualified, ok := v.qualify(key); ok && v.keys.Has(qualified) {
			return qualified
		}
	}
	return key
}

func (v registryValidator) qualify(key string) (string, bool) {
	if v.namespace == "" || strings.Contains(key, NamespaceSeparator) {
		return "", false
	}
	return v.namespace + NamespaceSeparator + key, true
}

// Bare strips the namespace from a registry key.
func Bare(key string) string {
	if idx := strings.LastIndex(key, NamespaceSeparator); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
