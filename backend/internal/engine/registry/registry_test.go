package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/id"
)

type actionDef struct {
	id   id.ActionID
	name string
}

func (a actionDef) DefinitionID() id.ActionID { return a.id }

func TestLoad_DuplicateIDIsError(t *testing.T) {
	defs := []actionDef{
		{id: id.NewActionID("nat20_core", "action.longsword_attack"), name: "Longsword Attack"},
		{id: id.NewActionID("nat20_core", "action.longsword_attack"), name: "Duplicate"},
	}
	_, err := Load[id.ActionID](defs)
	assert.Error(t, err)
}

func TestLoad_GetKeysValues(t *testing.T) {
	defs := []actionDef{
		{id: id.NewActionID("nat20_core", "action.longsword_attack"), name: "Longsword Attack"},
		{id: id.NewActionID("nat20_core", "action.fireball"), name: "Fireball"},
	}
	reg, err := Load[id.ActionID](defs)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get(id.NewActionID("nat20_core", "action.fireball"))
	require.True(t, ok)
	assert.Equal(t, "Fireball", got.name)

	_, ok = reg.Get(id.NewActionID("nat20_core", "action.unknown"))
	assert.False(t, ok)

	assert.Equal(t, []id.ActionID{defs[0].id, defs[1].id}, reg.Keys())
	assert.Len(t, reg.Values(), 2)
}
