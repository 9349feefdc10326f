// Package proficiency implements the proficiency weighting used by d20
// checks (spec.md §4.3): None/Half/Proficient/Expertise multiply a
// creature's proficiency bonus by 0, 0.5, 1, or 2 respectively.
package proficiency

import (
	"math"

	"github.com/nat20/combatcore/backend/internal/engine/modifier"
)

// Level is the closed set of proficiency weights a d20 check can have.
type Level int

const (
	None Level = iota
	Half
	Proficient
	Expertise
)

// weight returns the multiplier applied to the proficiency bonus.
func (l Level) weight() float64 {
	switch l {
	case Half:
		return 0.5
	case Proficient:
		return 1
	case Expertise:
		return 2
	default:
		return 0
	}
}

// String renders the level for display and as a modifier.Source tag.
func (l Level) String() string {
	switch l {
	case Half:
		return "half-proficient"
	case Proficient:
		return "proficient"
	case Expertise:
		return "expertise"
	default:
		return "not proficient"
	}
}

// Proficiency pairs a Level with the source that granted it (a class
// feature, a background, a feat, ...).
type Proficiency struct {
	Level  Level
	Source modifier.Source
}

// New constructs a Proficiency.
func New(level Level, source modifier.Source) Proficiency {
	return Proficiency{Level: level, Source: source}
}

// Bonus applies the level's weight to a creature's proficiency bonus,
// flooring toward negative infinity as spec.md §4.3 specifies
// ("floor(bonus × level_weight)").
func (p Proficiency) Bonus(proficiencyBonus int) int {
	return int(math.Floor(float64(proficiencyBonus) * p.Level.weight()))
}
