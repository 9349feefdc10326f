package encounter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

type fakeEnv struct {
	initiative map[entity.Handle]int
	life       map[entity.Handle]*damage.Life
	states     map[entity.Handle]damage.State
	passedTime []entity.Handle
	nextSave   int
}

func (f *fakeEnv) RollInitiative(e entity.Handle) *d20.Result {
	roll := f.initiative[e]
	return &d20.Result{Rolls: []int{roll}, SelectedRoll: roll, ModifierBreakdown: modifier.New()}
}
func (f *fakeEnv) PassTime(e entity.Handle, rule resource.RechargeRule) {
	f.passedTime = append(f.passedTime, e)
}
func (f *fakeEnv) LifeState(e entity.Handle) damage.State {
	if l, ok := f.life[e]; ok {
		return l.State
	}
	return f.states[e]
}
func (f *fakeEnv) Life(e entity.Handle) *damage.Life { return f.life[e] }
func (f *fakeEnv) RollDeathSavingThrow(entity.Handle) int { return f.nextSave }

func (f *fakeEnv) FootDistanceMM(entity.Handle, targeting.Instance) int { return 0 }
func (f *fakeEnv) HasLineOfSight(entity.Handle, targeting.Instance) bool { return true }
func (f *fakeEnv) IsCharacter(entity.Handle) bool { return true }
func (f *fakeEnv) IsMonster(entity.Handle) bool   { return false }
func (f *fakeEnv) EntitiesInShape(targeting.Shape, targeting.Instance, bool, entity.Handle) []entity.Handle {
	return nil
}

func TestNew_OrdersByInitiativeDescending(t *testing.T) {
	es := entity.NewStore()
	a, b, c := es.Spawn(), es.Spawn(), es.Spawn()
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 10, b: 20, c: 5},
		states:     map[entity.Handle]damage.State{a: damage.Normal, b: damage.Normal, c: damage.Normal},
	}

	enc := New(env, uuid.New(), []entity.Handle{a, b, c})
	require.Len(t, enc.InitiativeOrder, 3)
	assert.Equal(t, b, enc.InitiativeOrder[0].Entity)
	assert.Equal(t, a, enc.InitiativeOrder[1].Entity)
	assert.Equal(t, c, enc.InitiativeOrder[2].Entity)
	assert.Equal(t, b, enc.CurrentEntity())
	require.NotNil(t, enc.PendingPrompt())
	assert.Equal(t, b, enc.PendingPrompt().Actor)
}

func TestEndTurn_AdvancesAndWrapsRound(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 20, b: 10},
		states:     map[entity.Handle]damage.State{a: damage.Normal, b: damage.Normal},
	}
	enc := New(env, uuid.New(), []entity.Handle{a, b})
	assert.Equal(t, 1, enc.Round)

	require.NoError(t, enc.EndTurn(env, a))
	assert.Equal(t, b, enc.CurrentEntity())
	assert.Equal(t, 1, enc.Round)

	require.NoError(t, enc.EndTurn(env, b))
	assert.Equal(t, a, enc.CurrentEntity())
	assert.Equal(t, 2, enc.Round)
}

func TestEndTurn_WrongActorErrors(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 20, b: 10},
		states:     map[entity.Handle]damage.State{a: damage.Normal, b: damage.Normal},
	}
	enc := New(env, uuid.New(), []entity.Handle{a, b})

	err := enc.EndTurn(env, b)
	assert.ErrorIs(t, err, ErrNotCurrentTurn)
}

func TestStartTurn_SkipsNonNormalLifeState(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 20, b: 10},
		states:     map[entity.Handle]damage.State{a: damage.Dead, b: damage.Normal},
	}
	enc := New(env, uuid.New(), []entity.Handle{a, b})

	// a is Dead, so its turn auto-skips straight to b.
	assert.Equal(t, b, enc.CurrentEntity())
	require.NotNil(t, enc.PendingPrompt())
	assert.Equal(t, b, enc.PendingPrompt().Actor)
}

func TestStartTurn_UnconsciousRollsDeathSaveAndSkips(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	life := damage.NewLife(10)
	life.State = damage.Unconscious
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 20, b: 10},
		life:       map[entity.Handle]*damage.Life{a: life},
		states:     map[entity.Handle]damage.State{b: damage.Normal},
		nextSave:   15,
	}
	enc := New(env, uuid.New(), []entity.Handle{a, b})

	assert.Equal(t, b, enc.CurrentEntity())
	assert.Equal(t, 1, life.DeathSaves.Successes)
}

func TestParticipants_FiltersByKind(t *testing.T) {
	es := entity.NewStore()
	a, b := es.Spawn(), es.Spawn()
	env := &fakeEnv{
		initiative: map[entity.Handle]int{a: 20, b: 10},
		states:     map[entity.Handle]damage.State{a: damage.Normal, b: damage.Normal},
	}
	enc := New(env, uuid.New(), []entity.Handle{a, b})

	all := enc.Participants(env, targeting.AllFilter())
	assert.ElementsMatch(t, []entity.Handle{a, b}, all)

	specific := enc.Participants(env, targeting.SpecificFilter(a))
	assert.Equal(t, []entity.Handle{a}, specific)
}
