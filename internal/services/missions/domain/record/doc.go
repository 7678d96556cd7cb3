// Package record defines the mission record carried inside an item and its
// fixed-layout binary codec.
//
// A record is the only mission state that survives between actions: the
// carrier item holds the encoded bytes and the engine decodes, mutates and
// re-encodes them. Presence of the blob is what makes an item a mission.
package record
