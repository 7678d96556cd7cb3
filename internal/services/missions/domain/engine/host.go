package engine

import (
	"reflect"

	"github.com/google/uuid"
)

// SlotKind classifies a holder slot.
type SlotKind uint8

const (
	// SlotMain is general storage, including the hotbar.
	SlotMain SlotKind = iota
	// SlotEquipment is worn equipment; missions there are never scanned.
	SlotEquipment
	// SlotOffhand is the secondary hand.
	SlotOffhand
)

// Slot is one position in a holder's inventory.
type Slot struct {
	Index   int
	Kind    SlotKind
	Carrier Carrier
}

// Carrier is an item that may hold an encoded mission record.
type Carrier interface {
	// MissionData returns the encoded record, if any.
	MissionData() ([]byte, bool)
	SetMissionData(data []byte)
	// Broken reports whether the carrier was flagged as referencing a
	// missing definition.
	Broken() bool
	MarkBroken()
	ClearBroken()
}

// Holder is the acting entity whose inventory is scanned.
type Holder interface {
	ID() uuid.UUID
	Name() string
	// Location names the world or region the holder is in.
	Location() string
	// Slots returns the inventory in scan order. Empty slots should carry an
	// untyped nil Carrier; a nil pointer stored in the interface is also
	// treated as empty.
	Slots() []Slot
	// Remove takes carrier out of the inventory.
	Remove(carrier Carrier)
}

// scanOrder returns main slots in the order given followed by off-hand
// slots. Equipment is skipped.
func scanOrder(slots []Slot) []Slot {
	ordered := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Kind == SlotMain {
			ordered = append(ordered, slot)
		}
	}
	for _, slot := range slots {
		if slot.Kind == SlotOffhand {
			ordered = append(ordered, slot)
		}
	}
	return ordered
}

// empty reports whether c holds no carrier, including a typed nil pointer.
func empty(c Carrier) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
