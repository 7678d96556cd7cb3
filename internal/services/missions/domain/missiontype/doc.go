// Package missiontype defines the closed set of mission type variants and the
// two-phase registry that holds them.
//
// Types are registered on a Builder during startup and frozen into an
// immutable Registry that is safe for concurrent reads. Lookups fold case, so
// "Break" and "break" name the same type.
package missiontype
