// Package target provides single-field validators used to check and
// canonicalize the target tokens a mission definition declares.
package target

import (
	"strconv"
	"strings"
)

// Validator checks and canonicalizes a single target field.
type Validator interface {
	Validate(token string) bool
	Normalize(token string) string
}

// Func adapts a predicate into a Validator whose normalization is identity.
type Func func(token string) bool

// Validate calls f.
func (f Func) Validate(token string) bool { return f(token) }

// Normalize returns token unchanged.
func (f Func) Normalize(token string) string { return token }

// Enum matches tokens case-insensitively against a fixed symbol table.
type enumValidator struct {
	symbols map[string]struct{}
}

// Enum returns a validator accepting any of symbols, ignoring case and
// surrounding whitespace.
func Enum(symbols ...string) Validator {
	table := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		table[symbol] = struct{}{}
	}
	return enumValidator{symbols: table}
}

func (v enumValidator) Validate(token string) bool {
	_, ok := v.symbols[strings.ToUpper(strings.TrimSpace(token))]
	return ok
}

func (v enumValidator) Normalize(token string) string { return token }

// Int returns a validator accepting whole numbers.
func Int() Validator {
	return Func(func(token string) bool {
		_, err := strconv.Atoi(token)
		return err == nil
	})
}
