// Package engine decides, for each gameplay action a host reports, whether a
// mission carried by the acting holder advances, completes or fails.
//
// The engine owns no storage. Mission state lives in the carriers a holder
// owns; the engine decodes a carrier's record, mutates it, lets the host veto
// or override the change, and writes it back. Methods are synchronous and
// expect the host to serialize calls per holder.
package engine
