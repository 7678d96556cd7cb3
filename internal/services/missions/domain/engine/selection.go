package engine

import "github.com/louisbranch/missionkit/internal/services/missions/domain/definition"

// WeightedRandom picks a category by weight and returns a random definition
// from it. Categories with non-positive weight are never picked. It reports
// false when no weight is positive or the picked category is empty.
func (e *Engine) WeightedRandom(weights []definition.CategoryWeight) (definition.Definition, bool) {
	total := 0
	for _, w := range weights {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		return definition.Definition{}, false
	}

	roll := e.intN(total)
	gained := 0
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		gained += w.Weight
		if gained > roll {
			return e.CategoryRandom(w.Name)
		}
	}
	return definition.Definition{}, false
}

// WeightedRandomDefault runs WeightedRandom over the configured categories.
func (e *Engine) WeightedRandomDefault() (definition.Definition, bool) {
	return e.WeightedRandom(e.defs.Load().Categories())
}

// CategoryRandom returns a uniformly chosen definition of category, matched
// case-insensitively.
func (e *Engine) CategoryRandom(category string) (definition.Definition, bool) {
	defs := e.defs.Load().InCategory(category)
	if len(defs) == 0 {
		return definition.Definition{}, false
	}
	return defs[e.intN(len(defs))], true
}
