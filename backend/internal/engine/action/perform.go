package action

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// Perform dispatches k against a single target, implementing the
// per-kind behavior of spec.md §4.6 "ActionKind::perform". Composite
// recurses into each sub-kind in order; every other kind resolves its
// roll(s) against env and reports its Result.
func (k Kind) Perform(env Environment, performer entity.Handle, ctx Context, target entity.Handle) Result {
	switch k.Tag {
	case UnconditionalDamage:
		rolled, taken := resolveDamage(env, performer, ctx, target, k.Damage)
		env.ApplyDamage(target, damage.Total(taken), false)
		return Result{Tag: UnconditionalDamage, DamageRoll: rolled, DamageTaken: taken}

	case AttackRollDamage:
		check := k.AttackRoll(env, performer, ctx)
		ac := env.ArmorClass(target)
		env.PreAttackRoll(performer, target, check)
		attackResult := check.Roll(env.RNG(), env.ProficiencyBonus(performer))
		env.PostAttackRoll(performer, target, attackResult)
		hit := attackResult.IsSuccess(ac.Total())
		result := Result{Tag: AttackRollDamage, AttackResult: attackResult, ArmorClass: ac}
		if hit {
			dmg := k.Damage
			if attackResult.IsCrit {
				dmg = criticalDamageFn(k.Damage)
			}
			rolled, taken := resolveDamage(env, performer, ctx, target, dmg)
			env.ApplyDamage(target, damage.Total(taken), attackResult.IsCrit)
			result.DamageRoll = rolled
			result.DamageTaken = taken
		} else if k.DamageOnMiss != nil {
			rolled, taken := resolveDamage(env, performer, ctx, target, k.DamageOnMiss)
			env.ApplyDamage(target, damage.Total(taken), false)
			result.DamageRoll = rolled
			result.DamageTaken = taken
		}
		return result

	case SavingThrowDamage:
		dc := k.SavingThrow(env, performer, ctx)
		saveResult := rollSavingThrow(env, target, dc)
		result := Result{Tag: SavingThrowDamage, SavingThrowDC: dc, SavingThrow: saveResult}
		rolled, taken := resolveDamage(env, performer, ctx, target, k.Damage)
		if saveResult.Success && k.HalfDamageOnSave {
			for i := range taken {
				taken[i].Mitigated /= 2
			}
		} else if saveResult.Success && !k.HalfDamageOnSave {
			taken = nil
		}
		env.ApplyDamage(target, damage.Total(taken), false)
		result.DamageRoll = rolled
		result.DamageTaken = taken
		return result

	case UnconditionalEffect:
		err := env.ApplyEffect(target, k.Effect, modifier.Base, performer, effect.PermanentLifetime())
		return Result{Tag: UnconditionalEffect, EffectID: k.Effect, EffectApplied: err == nil}

	case SavingThrowEffect:
		dc := k.SavingThrow(env, performer, ctx)
		saveResult := rollSavingThrow(env, target, dc)
		applied := false
		if !saveResult.Success {
			applied = env.ApplyEffect(target, k.Effect, modifier.Base, performer, effect.PermanentLifetime()) == nil
		}
		return Result{Tag: SavingThrowEffect, SavingThrowDC: dc, SavingThrow: saveResult, EffectID: k.Effect, EffectApplied: applied}

	case SkillCheckEffect:
		dc := k.SkillCheck(env, performer, ctx)
		checkResult := env.RollSkill(target, dc.Key, dc.DC)
		applied := false
		if !checkResult.Success {
			applied = env.ApplyEffect(target, k.Effect, modifier.Base, performer, effect.PermanentLifetime()) == nil
		}
		return Result{Tag: SkillCheckEffect, SkillCheckDC: dc, SkillCheck: checkResult, EffectID: k.Effect, EffectApplied: applied}

	case BeneficialEffect:
		err := env.ApplyEffect(target, k.Effect, modifier.Base, performer, effect.PermanentLifetime())
		return Result{Tag: BeneficialEffect, EffectID: k.Effect, EffectApplied: err == nil}

	case Healing:
		roll := k.Heal(env, performer, ctx)
		healResult := roll.Roll(env.RNG())
		env.Heal(target, healResult.Subtotal)
		return Result{Tag: Healing, Healing: healResult}

	case Utility:
		return Result{Tag: Utility}

	case Composite:
		sub := make([]Result, len(k.Actions))
		for i, inner := range k.Actions {
			sub[i] = inner.Perform(env, performer, ctx, target)
		}
		return Result{Tag: Composite, SubResults: sub}

	case Reaction:
		if k.Reaction == nil {
			return Result{Tag: Reaction, NoEffect: true}
		}
		return k.Reaction(env, performer, ctx, nil)

	case Custom:
		if k.Custom != nil {
			k.Custom(env, performer, ctx)
		}
		return Result{Tag: Custom}

	default:
		return Result{Tag: k.Tag, NoEffect: true}
	}
}

func rollSavingThrow(env Environment, target entity.Handle, dc d20.DC[stats.Ability]) *d20.Result {
	return env.RollSavingThrow(target, dc.Key, dc.DC)
}

// resolveDamage rolls fn and mitigates it against target, without yet
// applying the result to HP — callers decide whether to apply the full
// amount, a halved amount (save succeeded for half damage), or none at
// all (save succeeded, damage negated) before calling env.ApplyDamage.
func resolveDamage(env Environment, performer entity.Handle, ctx Context, target entity.Handle, fn DamageFn) (damage.RollResult, []damage.Result) {
	roll := fn(env, performer, ctx)
	env.PreDamageRoll(performer, target, &roll)
	rolled := roll.Roll(env.RNG())
	env.PostDamageRoll(performer, target, &rolled)
	taken := env.Mitigate(target, rolled)
	return rolled, taken
}

// criticalDamageFn wraps fn so its roll doubles dice on resolution,
// matching spec.md §4.5's critical-hit dice-doubling rule.
func criticalDamageFn(fn DamageFn) DamageFn {
	return func(env Environment, performer entity.Handle, ctx Context) damage.Roll {
		return fn(env, performer, ctx).Doubled()
	}
}
