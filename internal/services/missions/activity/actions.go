package activity

import (
	"strconv"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/cache"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/target"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/wildcard"
)

// Block is a block involved in an action.
type Block struct {
	Pos      cache.BlockPos
	Material string
}

// BreakBlock credits breaking b. chain lists further blocks the break
// knocked loose; each one not recently placed adds one more credit.
// Recently placed blocks earn nothing.
func (a *Adapter) BreakBlock(holder engine.Holder, b Block, chain ...cache.BlockPos) error {
	places, _, _, _ := a.caches()
	if places.Recent(b.Pos) {
		return nil
	}
	return a.Act(holder, missiontype.TypeBreak, b.Material, 1+countFresh(places, chain))
}

// HarvestBlock credits harvesting a crop. Only mature crops count; chain
// works as in BreakBlock.
func (a *Adapter) HarvestBlock(holder engine.Holder, b Block, mature bool, chain ...cache.BlockPos) error {
	places, _, _, _ := a.caches()
	if !mature || places.Recent(b.Pos) {
		return nil
	}
	return a.Act(holder, missiontype.TypeHarvest, b.Material, 1+countFresh(places, chain))
}

// PlaceBlock remembers the placement and credits it.
func (a *Adapter) PlaceBlock(holder engine.Holder, b Block) error {
	places, _, _, _ := a.caches()
	places.Add(b.Pos)
	return a.Act(holder, missiontype.TypePlace, b.Material, 1)
}

func countFresh(places *cache.RecentPlace, chain []cache.BlockPos) int {
	fresh := 0
	for _, pos := range chain {
		if !places.Recent(pos) {
			fresh++
		}
	}
	return fresh
}

// MoveMode is how a holder moved.
type MoveMode uint8

const (
	// MoveWalk is ordinary walking or running.
	MoveWalk MoveMode = iota
	// MoveSwim is swimming.
	MoveSwim
	// MoveGlide is gliding with wings.
	MoveGlide
	// MoveOther covers flying, riding and other movement that earns nothing.
	MoveOther
)

func (m MoveMode) missionType() (string, bool) {
	switch m {
	case MoveWalk:
		return missiontype.TypeWalk, true
	case MoveSwim:
		return missiontype.TypeSwim, true
	case MoveGlide:
		return missiontype.TypeGlide, true
	default:
		return "", false
	}
}

// Move credits movement from one block to another. Moves within the same
// column and steps onto recently visited blocks are ignored; credit is
// batched per holder.
func (a *Adapter) Move(holder engine.Holder, from, to cache.BlockPos, mode MoveMode) error {
	if holder == nil || from.Column() == to.Column() {
		return nil
	}
	typeID, ok := mode.missionType()
	if !ok {
		return nil
	}
	_, steps, _, settings := a.caches()
	credit, ok := steps.Step(holder.ID(), to, settings.WalkBatch)
	if !ok {
		return nil
	}
	return a.Act(holder, typeID, "", credit)
}

// Leave drops per-holder state when a holder disconnects.
func (a *Adapter) Leave(holder engine.Holder) {
	if holder == nil {
		return
	}
	_, steps, _, _ := a.caches()
	steps.Forget(holder.ID())
}

// LoadBrewer records holder as the one brewing at pos.
func (a *Adapter) LoadBrewer(holder engine.Holder, pos cache.BlockPos) {
	if holder == nil {
		return
	}
	_, _, brewers, _ := a.caches()
	brewers.Associate(pos, holder.ID())
}

// BrewResult is one bottle of a finished brew.
type BrewResult struct {
	Before string
	After  string
}

// Brewed credits the holder associated with the brewing stand at pos for
// every bottle whose potion changed.
func (a *Adapter) Brewed(pos cache.BlockPos, results []BrewResult) error {
	_, _, brewers, _ := a.caches()
	id, ok := brewers.Brewer(pos)
	if !ok || a.holders == nil {
		return nil
	}
	holder, ok := a.holders.Holder(id)
	if !ok {
		return nil
	}
	for _, result := range results {
		if result.After == "" || result.After == result.Before {
			continue
		}
		if err := a.Act(holder, missiontype.TypeBrew, result.After, 1); err != nil {
			return err
		}
	}
	return nil
}

// Enchantment is an enchantment key at a level.
type Enchantment struct {
	Key   string
	Level int
}

// Enchant credits each enchantment applied to item, both as a plain
// enchant and as an enchantment:level:item tuple.
func (a *Adapter) Enchant(holder engine.Holder, item string, enchantments []Enchantment) error {
	for _, ench := range enchantments {
		if err := a.Act(holder, missiontype.TypeEnchant, ench.Key, 1); err != nil {
			return err
		}
		tuple := wildcard.Join(target.Bare(ench.Key), strconv.Itoa(ench.Level), item)
		if err := a.Act(holder, missiontype.TypeComplexEnchant, tuple, 1); err != nil {
			return err
		}
	}
	return nil
}

// Repair credits restored durability on item and any enchantment levels
// raised by the anvil.
func (a *Adapter) Repair(holder engine.Holder, item string, restored int, before, after []Enchantment) error {
	if err := a.Act(holder, missiontype.TypeRepair, item, restored); err != nil {
		return err
	}
	previous := make(map[string]int, len(before))
	for _, ench := range before {
		previous[ench.Key] = ench.Level
	}
	var raised []Enchantment
	for _, ench := range after {
		if ench.Level > previous[ench.Key] {
			raised = append(raised, ench)
		}
	}
	return a.Enchant(holder, item, raised)
}

// Consume credits eating or drinking item; potion is set when the item was
// a potion.
func (a *Adapter) Consume(holder engine.Holder, item, potion string) error {
	if potion != "" {
		if err := a.Act(holder, missiontype.TypePotion, potion, 1); err != nil {
			return err
		}
	}
	return a.Act(holder, missiontype.TypeConsume, item, 1)
}

// Died fails missions that forbid dying.
func (a *Adapter) Died(holder engine.Holder) int {
	return a.engine.FailOn(holder, definition.TriggerDeath, "died")
}

// Damaged fails missions that forbid taking damage. Zero damage is ignored.
func (a *Adapter) Damaged(holder engine.Holder, amount float64) int {
	if amount <= 0 {
		return 0
	}
	return a.engine.FailOn(holder, definition.TriggerTakeDamage, "took damage")
}
