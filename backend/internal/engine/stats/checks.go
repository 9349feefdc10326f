package stats

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// NewSkillChecks builds a d20.Set[Skill] with a template for every skill,
// each starting unproficient.
func NewSkillChecks() *d20.Set[Skill] {
	return d20.NewSet(Skills())
}

// NewSavingThrows builds a d20.Set[Ability] for the six ability-based
// saving throws (the original's SavingThrowKind is, in practice, always
// an Ability wrapper — see modifier.rs's
// `SavingThrowKind::Ability(Ability::Constitution)` — so saving throws
// are keyed directly by Ability here rather than through an intermediate
// SavingThrowKind enum with a single variant).
func NewSavingThrows() *d20.Set[Ability] {
	return d20.NewSet(Abilities())
}

// RollSkill rolls a skill check, supplying the entity's ability modifier
// for the skill's owning ability.
func RollSkill(
	checks *d20.Set[Skill], skill Skill, abilities *ScoreMap,
	checkHooks []d20.CheckHook, resultHooks []d20.ResultHook,
	src rng.Source, proficiencyBonus int,
) *d20.Result {
	ability := skill.OwningAbility()
	return checks.Check(
		skill,
		modifier.AbilitySource(ability.String()),
		abilities.AbilityModifier(ability),
		true,
		checkHooks, resultHooks,
		src, proficiencyBonus,
	)
}

// RollSavingThrow rolls a saving throw for ability.
func RollSavingThrow(
	saves *d20.Set[Ability], ability Ability, abilities *ScoreMap,
	checkHooks []d20.CheckHook, resultHooks []d20.ResultHook,
	src rng.Source, proficiencyBonus int,
) *d20.Result {
	return saves.Check(
		ability,
		modifier.AbilitySource(ability.String()),
		abilities.AbilityModifier(ability),
		true,
		checkHooks, resultHooks,
		src, proficiencyBonus,
	)
}
