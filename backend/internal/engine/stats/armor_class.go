package stats

import "github.com/nat20/combatcore/backend/internal/engine/modifier"

// DexterityBonusKind restricts how much of the dexterity modifier counts
// toward armor class (spec.md §4 "Armor class").
type DexterityBonusKind int

const (
	// Unlimited adds the full dexterity modifier (light armor, no armor).
	Unlimited DexterityBonusKind = iota
	// Limited caps the dexterity modifier contribution (medium armor).
	Limited
)

// ArmorClass computes a creature's total AC from a base value, a
// dexterity-bonus policy, and a general modifier set.
type ArmorClass struct {
	Base         int
	BaseSource   modifier.Source
	DexBonusKind DexterityBonusKind
	DexBonusCap  int
	Modifiers    *modifier.Set
}

// NewArmorClass constructs an AC of base with an unlimited dexterity
// policy; no dexterity modifier is added until ApplyDexterity is called.
func NewArmorClass(base int, source modifier.Source) *ArmorClass {
	return &ArmorClass{
		Base:         base,
		BaseSource:   source,
		DexBonusKind: Unlimited,
		Modifiers:    modifier.New(),
	}
}

// SetDexBonusCap switches to a limited dexterity bonus, capped at cap —
// the medium-armor case.
func (ac *ArmorClass) SetDexBonusCap(cap int) {
	ac.DexBonusKind = Limited
	ac.DexBonusCap = cap
}

const dexModifierSourceTag = "dexterity"

// ApplyDexterity adds the creature's dexterity modifier to AC, clamped at
// DexBonusCap when DexBonusKind is Limited (spec.md §4 "When dexterity is
// added as a modifier it is clamped at cap").
func (ac *ArmorClass) ApplyDexterity(dexModifier int) {
	applied := dexModifier
	if ac.DexBonusKind == Limited && applied > ac.DexBonusCap {
		applied = ac.DexBonusCap
	}
	ac.Modifiers.AddInt(modifier.AbilitySource(dexModifierSourceTag), applied)
}

// Total is base plus every modifier (spec.md §4 "Total = base +
// modifiers.total").
func (ac *ArmorClass) Total() int {
	return ac.Base + ac.Modifiers.TotalInt()
}
