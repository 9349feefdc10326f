package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

func TestScore_ModifierFormula(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{10, 0}, {11, 0}, {8, -1}, {9, -1}, {20, 5}, {3, -4}, {30, 10},
	}
	for _, tt := range tests {
		s := NewScore(tt.total)
		assert.Equal(t, tt.want, s.Modifier())
	}
}

func TestScore_ClampsToValidRange(t *testing.T) {
	assert.Equal(t, minAbilityScore, NewScore(0).Base)
	assert.Equal(t, maxAbilityScore, NewScore(100).Base)
}

func TestScore_TotalIncludesModifiers(t *testing.T) {
	s := NewScore(14)
	s.Modifiers.AddInt(modifier.ItemSource(id.NewItemID("nat20_core", "item.belt_of_giant_strength")), 2)
	assert.Equal(t, 16, s.Total())
	assert.Equal(t, 3, s.Modifier())
}

func TestSkill_OwningAbility(t *testing.T) {
	assert.Equal(t, Strength, Athletics.OwningAbility())
	assert.Equal(t, Dexterity, Stealth.OwningAbility())
	assert.Equal(t, Charisma, Persuasion.OwningAbility())
}

func TestArmorClass_DexterityClampedWhenLimited(t *testing.T) {
	ac := NewArmorClass(14, modifier.Base) // e.g. breastplate
	ac.SetDexBonusCap(2)
	ac.ApplyDexterity(5)

	assert.Equal(t, 16, ac.Total()) // 14 + min(5, 2)
}

func TestArmorClass_DexterityUnlimitedByDefault(t *testing.T) {
	ac := NewArmorClass(10, modifier.Base)
	ac.ApplyDexterity(5)
	assert.Equal(t, 15, ac.Total())
}

func TestLevel_ProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 0}, {1, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {17, 6}, {20, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewLevel(tt.level).ProficiencyBonus())
	}
}

func TestRollSkill(t *testing.T) {
	checks := NewSkillChecks()
	abilities := NewScoreMap(10)
	abilities.Get(Dexterity).Base = 16 // +3 modifier

	result := RollSkill(checks, Stealth, abilities, nil, nil, rng.NewScripted(9), 2)
	// face 10 + dex modifier 3 + unproficient 0 = 13
	assert.Equal(t, 13, result.Total())
}

func TestRollSavingThrow(t *testing.T) {
	saves := NewSavingThrows()
	abilities := NewScoreMap(10)
	abilities.Get(Constitution).Base = 18 // +4 modifier

	result := RollSavingThrow(saves, Constitution, abilities, nil, nil, rng.NewScripted(9), 2)
	require.NotNil(t, result)
	assert.Equal(t, 14, result.Total())
}
