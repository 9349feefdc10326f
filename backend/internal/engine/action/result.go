package action

import (
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// Result is the outcome of performing one Kind against one target
// (spec.md §4.6 "ActionKindResult"). As with Kind, only the fields
// relevant to the originating Tag are populated.
type Result struct {
	Tag Tag

	DamageRoll    damage.RollResult
	DamageTaken   []damage.Result
	AttackResult  *d20.Result
	ArmorClass    *stats.ArmorClass
	SavingThrowDC d20.DC[stats.Ability]
	SavingThrow   *d20.Result
	SkillCheckDC  d20.DC[stats.Skill]
	SkillCheck    *d20.Result
	EffectApplied bool
	EffectID      id.EffectID
	Healing       enginedice.RollResult
	SubResults    []Result
	NoEffect      bool
}
