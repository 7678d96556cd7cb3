package activity

import (
	"math"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
)

// Kill credits killing an entity.
func (a *Adapter) Kill(holder engine.Holder, entity string) error {
	return a.Act(holder, missiontype.TypeKill, entity, 1)
}

// Damage credits damage dealt to an entity, rounded to whole points.
func (a *Adapter) Damage(holder engine.Holder, entity string, amount float64) error {
	return a.Act(holder, missiontype.TypeDamage, entity, int(math.Round(amount)))
}

// Experience credits gained experience points.
func (a *Adapter) Experience(holder engine.Holder, amount int) error {
	return a.Act(holder, missiontype.TypeXP, "", amount)
}

// Trade credits a completed villager trade.
func (a *Adapter) Trade(holder engine.Holder) error {
	return a.Act(holder, missiontype.TypeTrade, "", 1)
}

// Tame credits taming an entity.
func (a *Adapter) Tame(holder engine.Holder, entity string) error {
	return a.Act(holder, missiontype.TypeTame, entity, 1)
}

// Milk credits milking an entity with a bucket.
func (a *Adapter) Milk(holder engine.Holder, entity string) error {
	return a.Act(holder, missiontype.TypeMilk, entity, 1)
}

// Shear credits shearing an entity.
func (a *Adapter) Shear(holder engine.Holder, entity string) error {
	return a.Act(holder, missiontype.TypeShear, entity, 1)
}

// Breed credits breeding two entities into entity.
func (a *Adapter) Breed(holder engine.Holder, entity string) error {
	return a.Act(holder, missiontype.TypeBreed, entity, 1)
}
