package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState(1234)
	assert.Equal(t, float64(0), s.Karma)
	assert.Equal(t, []string{"light", "dark"}, s.Unlocks.Themes)
	assert.Equal(t, "light", s.Settings.Theme)
	assert.Equal(t, int64(1234), s.Stats.LastSave)
	assert.Equal(t, int64(1234), s.Stats.LastOnline)
	assert.Empty(t, s.ActiveEffects)
}

func TestFromJSON_RoundTrip(t *testing.T) {
	s := DefaultState(1000)
	s.Karma = 42.5
	s.Score = 99
	s.Awards = 3
	s.Upgrades.Reply = 4
	s.Passives.Viralpost = 2
	s.Prestige = Prestige{Level: 1, Badges: []string{"prestige-1"}}
	s.ActiveEffects = []ActiveEffect{{
		ID:     "trending-1",
		Type:   EffectTrending,
		EndsAt: 2000,

		Multiplier: 2,
	}}
	s.Achievements = []string{"click_100"}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	got, err := FromJSON(b, 9999)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestFromJSON_MissingFieldsDefaultFill(t *testing.T) {
	got, err := FromJSON([]byte(`{"karma": 7, "upgrades": {"reply": 2}}`), 500)
	require.NoError(t, err)

	assert.Equal(t, float64(7), got.Karma)
	assert.Equal(t, 2, got.Upgrades.Reply)
	// Everything absent comes from the default state.
	assert.Equal(t, 0, got.Upgrades.PC)
	assert.Equal(t, []string{"light", "dark"}, got.Unlocks.Themes)
	assert.Equal(t, int64(500), got.Stats.LastOnline)
	assert.Equal(t, "light", got.Settings.Theme)
}

func TestFromJSON_UnknownFieldsIgnored(t *testing.T) {
	got, err := FromJSON([]byte(`{"karma": 1, "someFutureField": {"a": 1}}`), 0)
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.Karma)
}

func TestFromJSON_MalformedFallsBackToDefault(t *testing.T) {
	got, err := FromJSON([]byte(`{"karma": `), 77)
	require.Error(t, err)
	assert.Equal(t, DefaultState(77), got)
}

func TestNormalize_RepairsBadBlob(t *testing.T) {
	s := GameState{Karma: -5, Awards: -1}
	s.Normalize()
	assert.Equal(t, float64(0), s.Karma)
	assert.Equal(t, 0, s.Awards)
	assert.NotNil(t, s.ActiveEffects)
	assert.NotNil(t, s.Achievements)
	assert.Equal(t, "light", s.Settings.Theme)
}

func TestClone_IsDeep(t *testing.T) {
	s := DefaultState(0)
	s.Achievements = []string{"a"}
	c := s.Clone()
	c.Achievements[0] = "b"
	c.Unlocks.Themes[0] = "x"
	assert.Equal(t, "a", s.Achievements[0])
	assert.Equal(t, "light", s.Unlocks.Themes[0])
}
