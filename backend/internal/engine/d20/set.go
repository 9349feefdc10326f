package d20

import (
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/proficiency"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// CheckHook mutates a check template before it is rolled (advantage,
// flat bonuses, crit threshold reduction). ResultHook mutates the
// resolved result afterward (bonus damage on a successful save, for
// instance). Both are resolved by the caller — which has access to the
// entity's active effects — and passed in already bound to an entity, so
// this package stays free of any dependency on the entity/effect layers.
type CheckHook func(*Check)
type ResultHook func(*Result)

// Set holds one Check template per key of a closed enumeration (skills,
// saving throws, ...), mirroring spec.md §4.3's generic D20CheckSet.
type Set[K comparable] struct {
	checks map[K]*Check
}

// NewSet creates a Set with an unproficient, modifier-free Check template
// for every key in keys.
func NewSet[K comparable](keys []K) *Set[K] {
	checks := make(map[K]*Check, len(keys))
	for _, k := range keys {
		checks[k] = New(proficiency.New(proficiency.None, modifier.None))
	}
	return &Set[K]{checks: checks}
}

// Get returns the Check template for key. It panics if key was not part
// of the enumeration the Set was constructed with — a programmer error,
// not a runtime condition.
func (s *Set[K]) Get(key K) *Check {
	c, ok := s.checks[key]
	if !ok {
		panic("d20: unknown check key")
	}
	return c
}

// SetProficiency replaces key's proficiency weighting.
func (s *Set[K]) SetProficiency(key K, prof proficiency.Proficiency) {
	s.Get(key).Proficiency = prof
}

// AddAdvantage records an advantage/disadvantage vote on key's tracker.
func (s *Set[K]) AddAdvantage(key K, kind AdvantageType, source modifier.Source) {
	s.Get(key).Advantage.Add(kind, source)
}

// RemoveAdvantage discards key's votes attributed to source.
func (s *Set[K]) RemoveAdvantage(key K, source modifier.Source) {
	s.Get(key).Advantage.Remove(source)
}

// Check rolls key's template: clones it, applies the entity's ability
// modifier (if mapper reports one for this key) and every checkHook, rolls
// against src, then applies every resultHook. Mirrors the original's
// `D20CheckSet::check`/`roll_hooks` pairing, with the ability lookup and
// hook resolution supplied by the caller instead of held by the Set
// itself (see CheckHook's doc comment).
func (s *Set[K]) Check(
	key K,
	ability modifier.Source,
	abilityModifier int,
	hasAbility bool,
	checkHooks []CheckHook,
	resultHooks []ResultHook,
	src rng.Source,
	proficiencyBonus int,
) *Result {
	check := s.Get(key).Clone()
	if hasAbility {
		check.Modifiers.AddInt(ability, abilityModifier)
	}
	for _, hook := range checkHooks {
		hook(check)
	}

	result := check.Roll(src, proficiencyBonus)

	for _, hook := range resultHooks {
		hook(result)
	}
	return result
}

// DC pairs a check key with a target difficulty modifier set, mirroring
// spec.md §4.3's D20CheckDC.
type DC[K comparable] struct {
	Key K
	DC  *modifier.Set
}

// CheckDC rolls key against dc.DC.Total(), additionally flipping the
// result to a success if the raw total already clears the DC (the
// original's `result.success |= total >= dc`), while still honoring the
// crit-fail-never-succeeds rule.
func (s *Set[K]) CheckDC(
	dc DC[K],
	ability modifier.Source,
	abilityModifier int,
	hasAbility bool,
	checkHooks []CheckHook,
	resultHooks []ResultHook,
	src rng.Source,
	proficiencyBonus int,
) *Result {
	result := s.Check(dc.Key, ability, abilityModifier, hasAbility, checkHooks, resultHooks, src, proficiencyBonus)
	target := dc.DC.TotalInt()
	result.Success = result.Success || result.Total() >= target
	if result.IsCritFail {
		result.Success = false
	}
	return result
}
