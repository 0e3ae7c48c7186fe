package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, maxPlayers int) *Room {
	t.Helper()

	room, err := NewRoom(Settings{RoundTime: time.Minute, MaxRounds: 3}, maxPlayers)
	require.NoError(t, err)
	return room
}

func addPlayer(t *testing.T, room *Room, id, name string) *Player {
	t.Helper()

	p, err := NewPlayer(id, name)
	require.NoError(t, err)
	require.NoError(t, room.AddPlayer(p))
	return p
}

func TestNewRoomCode(t *testing.T) {
	room := newTestRoom(t, 0)

	assert.Len(t, room.Code, 5)
	for _, c := range room.Code {
		assert.True(t, strings.ContainsRune(roomCodeChars, c), "unexpected code character %q", c)
	}
}

func TestNewRoomFillsDefaults(t *testing.T) {
	room, err := NewRoom(Settings{Language: "klingon"}, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguage, room.Settings.Language)
	assert.Equal(t, DefaultCategory, room.Settings.Category)
}

func TestFirstPlayerBecomesHost(t *testing.T) {
	room := newTestRoom(t, 0)

	alice := addPlayer(t, room, "p1", "Alice")
	addPlayer(t, room, "p2", "Bob")

	assert.Equal(t, alice.ID, room.HostID)
	assert.True(t, room.IsHost(alice.ID))
	assert.False(t, room.IsHost("p2"))
}

func TestAddPlayerNameTakenIsCaseInsensitive(t *testing.T) {
	room := newTestRoom(t, 0)
	addPlayer(t, room, "p1", "Alice")

	dup, err := NewPlayer("p2", "aLiCe")
	require.NoError(t, err)

	assert.ErrorIs(t, room.AddPlayer(dup), ErrNameTaken)
}

func TestAddPlayerAlreadyJoined(t *testing.T) {
	room := newTestRoom(t, 0)
	addPlayer(t, room, "p1", "Alice")

	again, err := NewPlayer("p1", "Someone Else")
	require.NoError(t, err)

	assert.ErrorIs(t, room.AddPlayer(again), ErrAlreadyJoined)
}

func TestAddPlayerRoomFull(t *testing.T) {
	room := newTestRoom(t, 2)
	addPlayer(t, room, "p1", "Alice")
	addPlayer(t, room, "p2", "Bob")

	third, err := NewPlayer("p3", "Carol")
	require.NoError(t, err)

	assert.ErrorIs(t, room.AddPlayer(third), ErrRoomFull)
}

func TestJoinOrderIsTurnOrder(t *testing.T) {
	room := newTestRoom(t, 0)
	alice := addPlayer(t, room, "p1", "Alice")
	bob := addPlayer(t, room, "p2", "Bob")
	carol := addPlayer(t, room, "p3", "Carol")

	assert.Equal(t, alice.ID, room.DrawerID())
	room.AdvanceDrawer()
	assert.Equal(t, bob.ID, room.DrawerID())
	room.AdvanceDrawer()
	assert.Equal(t, carol.ID, room.DrawerID())
	room.AdvanceDrawer()
	assert.Equal(t, alice.ID, room.DrawerID())
}

func TestNextDrawerIndex(t *testing.T) {
	cases := []struct {
		name      string
		prev      int
		rosterLen int
		want      int
	}{
		{"first step", 0, 3, 1},
		{"wraps around", 2, 3, 0},
		{"stale index clamps first", 5, 3, 0},
		{"single player", 0, 1, 0},
		{"empty roster", 4, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextDrawerIndex(tc.prev, tc.rosterLen))
		})
	}
}

func TestRemovePlayerPromotesFirstRemaining(t *testing.T) {
	room := newTestRoom(t, 0)
	alice := addPlayer(t, room, "p1", "Alice")
	bob := addPlayer(t, room, "p2", "Bob")
	carol := addPlayer(t, room, "p3", "Carol")

	removed, err := room.RemovePlayer(alice.ID)
	require.NoError(t, err)

	assert.Equal(t, alice.ID, removed.ID)
	assert.Equal(t, bob.ID, room.HostID)
	require.Len(t, room.Players, 2)
	assert.Equal(t, bob.ID, room.Players[0].ID)
	assert.Equal(t, carol.ID, room.Players[1].ID)
}

func TestRemovePlayerClampsDrawerIndex(t *testing.T) {
	room := newTestRoom(t, 0)
	addPlayer(t, room, "p1", "Alice")
	addPlayer(t, room, "p2", "Bob")
	carol := addPlayer(t, room, "p3", "Carol")

	room.DrawerIndex = 2
	_, err := room.RemovePlayer(carol.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, room.DrawerIndex)
}

func TestRemovePlayerUnknown(t *testing.T) {
	room := newTestRoom(t, 0)
	addPlayer(t, room, "p1", "Alice")

	_, err := room.RemovePlayer("ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRemoveLastPlayerClearsHost(t *testing.T) {
	room := newTestRoom(t, 0)
	alice := addPlayer(t, room, "p1", "Alice")

	_, err := room.RemovePlayer(alice.ID)
	require.NoError(t, err)

	assert.Empty(t, room.HostID)
	assert.Empty(t, room.Players)
}

func TestAllGuessed(t *testing.T) {
	room := newTestRoom(t, 0)
	addPlayer(t, room, "p1", "Alice")

	// Solo drawer has nobody to guess.
	assert.False(t, room.AllGuessed())

	bob := addPlayer(t, room, "p2", "Bob")
	carol := addPlayer(t, room, "p3", "Carol")

	assert.False(t, room.AllGuessed())

	bob.HasGuessed = true
	assert.False(t, room.AllGuessed())

	carol.HasGuessed = true
	assert.True(t, room.AllGuessed())
}

func TestResetGame(t *testing.T) {
	room := newTestRoom(t, 0)
	alice := addPlayer(t, room, "p1", "Alice")
	bob := addPlayer(t, room, "p2", "Bob")

	alice.Score = 55
	bob.Score = 50
	bob.HasGuessed = true
	room.RoundNumber = 3
	room.DrawerIndex = 1

	room.ResetGame()

	assert.Zero(t, alice.Score)
	assert.Zero(t, bob.Score)
	assert.False(t, bob.HasGuessed)
	assert.Zero(t, room.RoundNumber)
	assert.Zero(t, room.DrawerIndex)
}
