package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeng/internal/domain"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	r, err := reg.Create(domain.JokerDeck)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(r.ID)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = reg.CreateWithID(r.ID, domain.StandardDeck)
	assert.ErrorIs(t, err, domain.ErrState)

	v := r.Version
	assert.True(t, reg.Delete(r.ID))
	assert.Greater(t, r.Version, v, "deleting a room invalidates pending bot work")
	assert.False(t, reg.Delete(r.ID))

	_, err = reg.Get(r.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, reg.IDs())
}

func TestRegistryRejectsBadConfig(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(domain.DeckConfig{Seats: 4, HoleSize: 3})
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Zero(t, reg.Len())
}

func TestRoomSeatingAndHost(t *testing.T) {
	r := NewRoom("r", domain.StandardDeck)
	seat, err := r.Sit("bot-1", true)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)
	assert.Equal(t, domain.NoSeat, r.HostSeat, "bots never host")

	seat, err = r.Sit("alice", false)
	require.NoError(t, err)
	assert.Equal(t, 1, seat)
	assert.Equal(t, 1, r.HostSeat)

	again, err := r.Sit("alice", false)
	require.NoError(t, err)
	assert.Equal(t, 1, again)

	_, err = r.Sit("bob", false)
	require.NoError(t, err)
	_, err = r.Sit("carol", false)
	require.NoError(t, err)
	assert.True(t, r.Full())
	assert.Equal(t, 3, r.Humans())

	_, err = r.Sit("dave", false)
	assert.ErrorIs(t, err, ErrSeatTaken)

	left, ok := r.Leave("alice")
	assert.True(t, ok)
	assert.Equal(t, 1, left)
	assert.Equal(t, 2, r.HostSeat, "host moves to the next human")

	_, err = r.ViewFor(0)
	assert.ErrorIs(t, err, ErrNoGame)
}
