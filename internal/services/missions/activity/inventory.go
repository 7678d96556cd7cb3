package activity

import (
	"slices"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
)

// CraftClick is how a crafting result was taken.
type CraftClick uint8

const (
	// CraftTake takes a single result.
	CraftTake CraftClick = iota
	// CraftShift crafts as many as the grid allows into the inventory.
	CraftShift
	// CraftDrop crafts as many as the grid allows and drops them.
	CraftDrop
)

// Craft describes a finished crafting action.
type Craft struct {
	// Item is the result material.
	Item string
	// Output is the number of items one craft yields.
	Output int
	Click  CraftClick
	// Matrix holds the stack sizes of the occupied grid slots.
	Matrix []int
	// FreeSpace is the room left for Item in the holder's inventory.
	FreeSpace int
}

// Amount returns the number of items the craft produced. Bulk crafts repeat
// until the smallest grid stack runs out; shift crafts are further limited
// by free inventory space.
func (c Craft) Amount() int {
	switch c.Click {
	case CraftShift:
		return min(c.bulk(), max(0, c.FreeSpace))
	case CraftDrop:
		return c.bulk()
	default:
		return c.Output
	}
}

func (c Craft) bulk() int {
	stacks := slices.DeleteFunc(slices.Clone(c.Matrix), func(n int) bool { return n <= 0 })
	if len(stacks) == 0 {
		return 0
	}
	return c.Output * slices.Min(stacks)
}

// Craft credits the items produced by c.
func (a *Adapter) Craft(holder engine.Holder, c Craft) error {
	return a.Act(holder, missiontype.TypeCraft, c.Item, c.Amount())
}

// Smelt credits amount items taken out of a furnace.
func (a *Adapter) Smelt(holder engine.Holder, item string, amount int) error {
	return a.Act(holder, missiontype.TypeSmelt, item, amount)
}

// Fish credits an item caught while fishing.
func (a *Adapter) Fish(holder engine.Holder, item string) error {
	return a.Act(holder, missiontype.TypeFish, item, 1)
}

// Disenchant credits taking result from a grindstone. Nothing is credited
// when the inputs carried no enchantment levels.
func (a *Adapter) Disenchant(holder engine.Holder, result string, removedLevels int) error {
	if removedLevels <= 0 {
		return nil
	}
	return a.Act(holder, missiontype.TypeDisenchant, result, 1)
}
