package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
)

// fakeEnv is a minimal Environment stub for tests: every entity is 1000mm
// away with line of sight, except entries explicitly overridden.
type fakeEnv struct {
	distances map[entity.Handle]int
	los       map[entity.Handle]bool
	states    map[entity.Handle]damage.State
	monsters  map[entity.Handle]bool
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		distances: make(map[entity.Handle]int),
		los:       make(map[entity.Handle]bool),
		states:    make(map[entity.Handle]damage.State),
		monsters:  make(map[entity.Handle]bool),
	}
}

func (f *fakeEnv) FootDistanceMM(actor entity.Handle, target Instance) int {
	if d, ok := f.distances[target.Entity]; ok {
		return d
	}
	return 1000
}

func (f *fakeEnv) HasLineOfSight(actor entity.Handle, target Instance) bool {
	if v, ok := f.los[target.Entity]; ok {
		return v
	}
	return true
}

func (f *fakeEnv) IsCharacter(e entity.Handle) bool { return !f.monsters[e] }
func (f *fakeEnv) IsMonster(e entity.Handle) bool    { return f.monsters[e] }
func (f *fakeEnv) LifeState(e entity.Handle) damage.State {
	if s, ok := f.states[e]; ok {
		return s
	}
	return damage.Normal
}
func (f *fakeEnv) EntitiesInShape(Shape, Instance, bool, entity.Handle) []entity.Handle { return nil }

func TestContext_InRangeAndWithinNormalRange(t *testing.T) {
	c := Context{RangeNormalMM: 1500, RangeMaxMM: 9000}
	assert.True(t, c.WithinNormalRange(1000))
	assert.False(t, c.WithinNormalRange(2000))
	assert.True(t, c.InRange(9000))
	assert.False(t, c.InRange(9001))
}

func TestContext_Validate_OutOfRange(t *testing.T) {
	c := Context{Kind: Single, RangeMaxMM: 1500, Allowed: AllFilter()}
	es := entity.NewStore()
	actor, far := es.Spawn(), es.Spawn()
	env := newFakeEnv()
	env.distances[far] = 3000

	err := c.Validate(env, actor, []Instance{EntityInstance(far)})
	var targetErr *Error
	a := assert.New(t)
	a.ErrorAs(err, &targetErr)
	a.Equal(OutOfRange, targetErr.Kind)
}

func TestContext_Validate_NoLineOfSight(t *testing.T) {
	c := Context{Kind: Single, RangeMaxMM: 9000, RequireLineOfSight: true, Allowed: AllFilter()}
	es := entity.NewStore()
	actor, behindWall := es.Spawn(), es.Spawn()
	env := newFakeEnv()
	env.los[behindWall] = false

	err := c.Validate(env, actor, []Instance{EntityInstance(behindWall)})
	var targetErr *Error
	a := assert.New(t)
	a.ErrorAs(err, &targetErr)
	a.Equal(NoLineOfSight, targetErr.Kind)
}

func TestContext_Validate_ExceedsMaxTargets(t *testing.T) {
	c := Context{Kind: Multiple, MaxTargets: 1, RangeMaxMM: 9000, Allowed: AllFilter()}
	es := entity.NewStore()
	actor, t1, t2 := es.Spawn(), es.Spawn(), es.Spawn()

	err := c.Validate(newFakeEnv(), actor, []Instance{EntityInstance(t1), EntityInstance(t2)})
	var targetErr *Error
	a := assert.New(t)
	a.ErrorAs(err, &targetErr)
	a.Equal(ExceedsMaxTargets, targetErr.Kind)
}

func TestContext_Validate_WithinRangeAndLineOfSightSucceeds(t *testing.T) {
	c := Context{Kind: Single, RangeMaxMM: 9000, RequireLineOfSight: true, Allowed: AllFilter()}
	es := entity.NewStore()
	actor, target := es.Spawn(), es.Spawn()

	err := c.Validate(newFakeEnv(), actor, []Instance{EntityInstance(target)})
	assert.NoError(t, err)
}

func TestFilter_Matches(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	env := newFakeEnv()
	env.monsters[b] = true
	env.states[a] = damage.Dead

	assert.True(t, AllFilter().Matches(env, a))
	assert.False(t, CharactersFilter().Matches(env, b))
	assert.True(t, MonstersFilter().Matches(env, b))
	assert.True(t, SpecificFilter(a).Matches(env, a))
	assert.False(t, SpecificFilter(a).Matches(env, b))
	assert.True(t, LifeStatesFilter(damage.Dead).Matches(env, a))
	assert.False(t, NotDeadFilter().Matches(env, a))
	assert.True(t, NotDeadFilter().Matches(env, b))
}
