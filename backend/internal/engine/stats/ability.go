// Package stats implements the ability score, skill, saving throw, armor
// class, and level/proficiency-bonus derivations of spec.md §4 (C8).
package stats

import (
	"math"

	"github.com/nat20/combatcore/backend/internal/engine/modifier"
)

// Ability is one of the six core ability scores.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

var abilityNames = [...]string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

func (a Ability) String() string {
	if int(a) < 0 || int(a) >= len(abilityNames) {
		return "unknown"
	}
	return abilityNames[a]
}

// Abilities lists every ability, in the canonical order used to build an
// AbilityScoreMap or iterate for "all" style effects.
func Abilities() []Ability {
	return []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}
}

const (
	minAbilityScore = 3
	maxAbilityScore = 30
)

// Score wraps a base integer ability score (3-30, spec.md §4 "Ability
// score wraps a base integer") with a modifier set for bonuses/penalties
// applied on top.
type Score struct {
	Base      int
	Modifiers *modifier.Set
}

// NewScore constructs a Score, clamping base into [3, 30].
func NewScore(base int) *Score {
	if base < minAbilityScore {
		base = minAbilityScore
	}
	if base > maxAbilityScore {
		base = maxAbilityScore
	}
	return &Score{Base: base, Modifiers: modifier.New()}
}

// Total is the base score plus every modifier.
func (s *Score) Total() int {
	return s.Base + s.Modifiers.TotalInt()
}

// Modifier is the ability modifier: floor((total - 10) / 2).
func (s *Score) Modifier() int {
	return int(math.Floor(float64(s.Total()-10) / 2.0))
}

// ScoreMap holds all six ability scores for an entity.
type ScoreMap struct {
	scores map[Ability]*Score
}

// NewScoreMap builds a ScoreMap with every ability defaulted to base.
func NewScoreMap(base int) *ScoreMap {
	scores := make(map[Ability]*Score, len(Abilities()))
	for _, a := range Abilities() {
		scores[a] = NewScore(base)
	}
	return &ScoreMap{scores: scores}
}

// Get returns the Score for a. It panics if a is not one of the six
// abilities — a programmer error, since Abilities() is closed.
func (m *ScoreMap) Get(a Ability) *Score {
	s, ok := m.scores[a]
	if !ok {
		panic("stats: unknown ability")
	}
	return s
}

// AbilityModifier is a convenience accessor for Get(a).Modifier().
func (m *ScoreMap) AbilityModifier(a Ability) int {
	return m.Get(a).Modifier()
}
