package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

func TestSubmitDecision_ActionIsProcessedAndLogged(t *testing.T) {
	router, world, ctrl, token := newTestServer(t)
	a := world.Spawn(combat.TagCharacter, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	b := world.Spawn(combat.TagMonster, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	encounterID := ctrl.StartEncounter([]entity.Handle{a, b})
	csrf := fetchCSRF(t, router, token)

	prompt, err := ctrl.NextPrompt(encounterID)
	require.NoError(t, err)
	target := a
	if prompt.Actor == a {
		target = b
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/encounters/"+encounterID.String()+"/decisions", token, csrf, map[string]interface{}{
		"kind":      "action",
		"actor":     handleText(t, prompt.Actor),
		"action_id": strikeID.String(),
		"context":   map[string]interface{}{"kind": "other"},
		"targets":   []string{handleText(t, target)},
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	enc, ok := ctrl.Encounter(encounterID)
	require.True(t, ok)
	assert.NotEmpty(t, enc.Log.Events())
}

func TestSubmitDecision_UnknownActionIDIsValidationError(t *testing.T) {
	router, world, ctrl, token := newTestServer(t)
	a := world.Spawn(combat.TagCharacter, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	b := world.Spawn(combat.TagMonster, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	encounterID := ctrl.StartEncounter([]entity.Handle{a, b})
	csrf := fetchCSRF(t, router, token)

	prompt, err := ctrl.NextPrompt(encounterID)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/encounters/"+encounterID.String()+"/decisions", token, csrf, map[string]interface{}{
		"kind":      "action",
		"actor":     handleText(t, prompt.Actor),
		"action_id": "nat20_core:action.does_not_exist",
		"context":   map[string]interface{}{"kind": "other"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNextPrompt_UnknownEncounterIsNotFound(t *testing.T) {
	router, _, _, token := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/encounters/00000000-0000-0000-0000-000000000000/prompt", token, csrfTicket{}, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
