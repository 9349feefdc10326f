package httpapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

func TestStartEncounter_RollsInitiativeAndReturnsID(t *testing.T) {
	router, world, _, token := newTestServer(t)
	a := world.Spawn(combat.TagCharacter, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	b := world.Spawn(combat.TagMonster, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	csrf := fetchCSRF(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/encounters", token, csrf, map[string]interface{}{
		"participants": []string{handleText(t, a), handleText(t, b)},
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		EncounterID uuid.UUID `json:"encounter_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, uuid.Nil, resp.EncounterID)
}

func TestGetEncounter_UnknownIDIsNotFound(t *testing.T) {
	router, _, _, token := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/encounters/"+uuid.New().String(), token, csrfTicket{}, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndEncounter_ReleasesParticipants(t *testing.T) {
	router, world, ctrl, token := newTestServer(t)
	a := world.Spawn(combat.TagCharacter, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	b := world.Spawn(combat.TagMonster, stats.NewScoreMap(12), 10, stats.NewLevel(1), 12)
	encounterID := ctrl.StartEncounter([]entity.Handle{a, b})
	csrf := fetchCSRF(t, router, token)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/encounters/"+encounterID.String(), token, csrf, nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	_, stillInCombat := ctrl.EncounterFor(a)
	assert.False(t, stillInCombat)
}

func handleText(t *testing.T, h interface{ MarshalText() ([]byte, error) }) string {
	t.Helper()
	text, err := h.MarshalText()
	require.NoError(t, err)
	return string(text)
}
