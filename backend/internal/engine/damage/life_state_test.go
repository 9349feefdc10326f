package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLife_ApplyDamageDropsToUnconscious(t *testing.T) {
	l := NewLife(20)
	changed := l.ApplyDamage(20, false)
	assert.True(t, changed)
	assert.Equal(t, Unconscious, l.State)
	assert.Equal(t, 0, l.HP)
	assert.Equal(t, DeathSaves{}, l.DeathSaves)
}

func TestLife_MassiveDamageKillsOutright(t *testing.T) {
	l := NewLife(20)
	changed := l.ApplyDamage(45, false) // overflow 25 >= MaxHP 20
	assert.True(t, changed)
	assert.Equal(t, Dead, l.State)
}

func TestLife_DamageWhileUnconsciousAddsFailure(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.ApplyDamage(5, false)
	assert.Equal(t, 1, l.DeathSaves.Failures)
	assert.Equal(t, Unconscious, l.State)
}

func TestLife_CritWhileUnconsciousAddsTwoFailures(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.ApplyDamage(5, true)
	assert.Equal(t, 2, l.DeathSaves.Failures)
}

func TestLife_ThreeFailuresKills(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.ApplyDamage(1, false)
	l.ApplyDamage(1, false)
	l.ApplyDamage(1, false)
	assert.Equal(t, Dead, l.State)
}

func TestLife_HealFromUnconsciousResetsToNormal(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.DeathSaves.Failures = 2
	changed := l.Heal(5)
	assert.True(t, changed)
	assert.Equal(t, Normal, l.State)
	assert.Equal(t, 5, l.HP)
	assert.Equal(t, DeathSaves{}, l.DeathSaves)
}

func TestLife_HealCapsAtMaxHP(t *testing.T) {
	l := NewLife(20)
	l.HP = 18
	l.Heal(10)
	assert.Equal(t, 20, l.HP)
}

func TestLife_RollDeathSaveNaturalTwentyRevives(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.DeathSaves.Failures = 2
	l.RollDeathSave(20)
	assert.Equal(t, Normal, l.State)
	assert.Equal(t, 1, l.HP)
	assert.Equal(t, DeathSaves{}, l.DeathSaves)
}

func TestLife_RollDeathSaveNaturalOneCountsDouble(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.RollDeathSave(1)
	assert.Equal(t, 2, l.DeathSaves.Failures)
}

func TestLife_RollDeathSaveThreeSuccessesStabilizes(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.RollDeathSave(15)
	l.RollDeathSave(12)
	l.RollDeathSave(10)
	assert.Equal(t, Stable, l.State)
}

func TestLife_RollDeathSaveThreeFailuresKills(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.RollDeathSave(5)
	l.RollDeathSave(5)
	l.RollDeathSave(5)
	assert.Equal(t, Dead, l.State)
}

func TestLife_DamageWhileStableReturnsToUnconscious(t *testing.T) {
	l := NewLife(20)
	l.ApplyDamage(20, false)
	l.RollDeathSave(15)
	l.RollDeathSave(12)
	l.RollDeathSave(10) // Stable
	l.ApplyDamage(1, false)
	assert.Equal(t, Unconscious, l.State)
}
