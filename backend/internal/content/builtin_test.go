package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/content"
	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/registry"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

func TestActions_LoadWithoutDuplicateIDs(t *testing.T) {
	defs := content.Actions()
	require.Len(t, defs, 4)

	reg, err := registry.Load[id.ActionID, action.Definition](defs)
	require.NoError(t, err)
	assert.Equal(t, len(defs), reg.Len())
}

func TestParry_IsAReactionWithACancelPlanAndTurnCooldown(t *testing.T) {
	reg, err := registry.Load[id.ActionID, action.Definition](content.Actions())
	require.NoError(t, err)

	parry, ok := reg.Get(id.NewActionID(content.Namespace, "action.parry"))
	require.True(t, ok)

	assert.Equal(t, action.Reaction, parry.Kind.Tag)
	require.NotNil(t, parry.Plan)
	require.NotNil(t, parry.Cooldown)
	require.NotNil(t, parry.ReactsTo)

	es := entity.NewStore()
	attacker, reactor := es.Spawn(), es.Spawn()
	assert.True(t, parry.ReactsTo(reactor, attacker))
	assert.False(t, parry.ReactsTo(attacker, attacker))
}

func TestShove_FailedAthleticsCheckAppliesProne(t *testing.T) {
	defs := content.Actions()
	reg, err := registry.Load[id.ActionID, action.Definition](defs)
	require.NoError(t, err)

	effects, err := registry.Load[id.EffectID, effect.Definition](content.Effects())
	require.NoError(t, err)

	world := combat.New(rng.NewScripted(0), reg, effect.NewStore(effects)) // natural 1
	attacker := world.Spawn(combat.TagCharacter, stats.NewScoreMap(18), 10, stats.NewLevel(5), 10)
	target := world.Spawn(combat.TagMonster, stats.NewScoreMap(10), 10, stats.NewLevel(5), 10)

	shove, ok := reg.Get(id.NewActionID(content.Namespace, "action.shove"))
	require.True(t, ok)

	before := world.ArmorClass(target).Total()
	results, err := shove.Perform(world, attacker, action.OtherContext(), []entity.Handle{target})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, stats.Athletics, results[0].SkillCheckDC.Key)
	require.NotNil(t, results[0].SkillCheck)
	assert.False(t, results[0].SkillCheck.Success)
	assert.True(t, results[0].EffectApplied)
	assert.Less(t, world.ArmorClass(target).Total(), before)
}

func TestStrikeDamage_RollsPrimaryComponent(t *testing.T) {
	defs := content.Actions()
	reg, err := registry.Load[id.ActionID, action.Definition](defs)
	require.NoError(t, err)

	effects, err := registry.Load[id.EffectID, effect.Definition](content.Effects())
	require.NoError(t, err)

	world := combat.New(rng.NewScripted(4), reg, effect.NewStore(effects))
	actor := world.Spawn(combat.TagCharacter, stats.NewScoreMap(10), 10, stats.NewLevel(1), 10)

	strike, ok := reg.Get(id.NewActionID(content.Namespace, "action.strike"))
	require.True(t, ok)

	roll := strike.Kind.Damage(nil, actor, action.Context{})
	assert.Equal(t, 1, roll.Primary.Roll.Dice.Count)
	assert.Equal(t, 6, roll.Primary.Roll.Dice.Size)
}
