package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster([]byte(`[
		{"user_id": "u-1", "username": "mai", "display_name": "Mai", "difficulty": "hard"},
		{"device_id": "dev-2", "username": "lan", "display_name": "Lan", "difficulty": "medium"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	id, ok := r.Lookup("u-1")
	require.True(t, ok)
	assert.Equal(t, DifficultyHard, id.Difficulty)
	assert.Equal(t, DifficultyNormal, r.Pick(1).Difficulty)
	assert.Equal(t, "Mai", r.Pick(2).DisplayName)

	_, ok = r.Lookup("dev-2")
	assert.False(t, ok, "unprovisioned bots have no user id yet")
}

func TestParseRosterRejectsBadDifficulty(t *testing.T) {
	_, err := ParseRoster([]byte(`[{"username": "x", "difficulty": "god"}]`))
	assert.Error(t, err)

	_, err = ParseRoster([]byte(`{`))
	assert.Error(t, err)
}

func TestEmptyRosterGeneratesIdentities(t *testing.T) {
	r := NewRoster()
	a, b := r.Pick(0), r.Pick(0)
	assert.True(t, strings.HasPrefix(a.UserID, "bot-"))
	assert.NotEqual(t, a.UserID, b.UserID)
	assert.Equal(t, "AI Player 1", a.DisplayName)
	assert.Equal(t, DifficultyNormal, a.Difficulty)
}
