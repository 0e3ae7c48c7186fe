package game

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/infrastructure/ws"
)

// fakeHub records every frame a session emits. Broadcast order is the
// assertion surface for most round-flow tests.
type fakeHub struct {
	mu         sync.Mutex
	broadcasts []*ws.WSMessage
	direct     map[string][]*ws.WSMessage
	closed     []string
}

func newFakeHub() *fakeHub {
	return &fakeHub{direct: make(map[string][]*ws.WSMessage)}
}

func (h *fakeHub) BroadcastToRoom(roomCode string, msg *ws.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, msg)
}

func (h *fakeHub) BroadcastToRoomExcept(roomCode, exceptID string, msg *ws.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, msg)
}

func (h *fakeHub) SendToPlayer(playerID string, msg *ws.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.direct[playerID] = append(h.direct[playerID], msg)
}

func (h *fakeHub) ClosePlayer(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = append(h.closed, playerID)
}

func (h *fakeHub) countType(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, msg := range h.broadcasts {
		if msg.Type == eventType {
			n++
		}
	}
	return n
}

func (h *fakeHub) lastOfType(eventType string) *ws.WSMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.broadcasts) - 1; i >= 0; i-- {
		if h.broadcasts[i].Type == eventType {
			return h.broadcasts[i]
		}
	}
	return nil
}

func (h *fakeHub) systemMessages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []string
	for _, msg := range h.broadcasts {
		if msg.Type == ws.EventSystemMessage {
			out = append(out, msg.Data.(string))
		}
	}
	return out
}

func (h *fakeHub) directOfType(playerID, eventType string) *ws.WSMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, msg := range h.direct[playerID] {
		if msg.Type == eventType {
			return msg
		}
	}
	return nil
}

// newTestSession builds a session with joined players and drives it
// synchronously through handle, no Run goroutine involved.
func newTestSession(t *testing.T, cfg Config, names ...string) (*Session, *fakeHub, []*domain.Player) {
	t.Helper()

	room, err := domain.NewRoom(domain.Settings{
		RoundTime: cfg.RoundTime,
		MaxRounds: cfg.MaxRounds,
	}, 0)
	require.NoError(t, err)

	hub := newFakeHub()
	s := NewSession(room, cfg, Deps{Hub: hub}, nil)
	t.Cleanup(func() { s.dispose(false) })

	players := make([]*domain.Player, 0, len(names))
	for i, name := range names {
		p, err := domain.NewPlayer(fmt.Sprintf("p%d", i+1), name)
		require.NoError(t, err)
		require.NoError(t, s.join(p))
		players = append(players, p)
	}
	return s, hub, players
}

// startActiveRound walks the host through prestart and word choice.
func startActiveRound(t *testing.T, s *Session) string {
	t.Helper()

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	require.NotEmpty(t, s.candidates, "prestart should issue candidates")

	word := s.candidates[0]
	s.handle(cmdChooseWord{RequesterID: s.room.DrawerID(), Word: word})
	require.True(t, s.roundActive)
	return word
}

func defaultTestConfig() Config {
	return Config{RoundTime: time.Minute, MaxRounds: 3}
}

func TestGuessPoints(t *testing.T) {
	cases := []struct {
		name         string
		timeLeft     int
		roundSeconds int
		want         int
	}{
		{"full time", 60, 60, 50},
		{"zero time floors", 0, 60, 10},
		{"half time", 30, 60, 25},
		{"low remainder floors", 5, 60, 10},
		{"short round full time", 5, 5, 50},
		{"zero-length round", 3, 0, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GuessPoints(tc.timeLeft, tc.roundSeconds))
		})
	}
}

func TestGuessAtFullTimeAwardsMaxAndDrawerBonus(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	drawer, guesser := players[0], players[1]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: guesser.ID, Text: " " + word + " "})

	assert.Equal(t, 50, guesser.Score)
	assert.Equal(t, 5, drawer.Score)
	assert.True(t, guesser.HasGuessed)
	assert.Contains(t, hub.systemMessages(), "Bob guessed correctly! (+50)")

	// Only guesser left, so the round ends immediately with the word revealed.
	ended := hub.lastOfType(ws.EventRoundEnded)
	require.NotNil(t, ended)
	payload := ended.Data.(ws.RoundEndedPayload)
	assert.Equal(t, word, payload.Word)
	assert.True(t, payload.Revealed)
}

func TestGuessNearZeroFloorsAtTen(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")
	guesser := players[1]

	word := startActiveRound(t, s)
	s.timeLeft = 0
	s.handle(cmdChat{RequesterID: guesser.ID, Text: word})

	assert.Equal(t, 10, guesser.Score)
}

func TestGuessIsCaseInsensitive(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	guesser := players[1]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: guesser.ID, Text: "  " + strings.ToUpper(word) + "  "})

	assert.True(t, guesser.HasGuessed)
	assert.Equal(t, 50, guesser.Score)
}

func TestDrawerChattingTheWordIsPlainChat(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	drawer := players[0]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: drawer.ID, Text: word})

	assert.Zero(t, drawer.Score)
	assert.Equal(t, 1, hub.countType(ws.EventChat))
	assert.True(t, s.roundActive)
}

func TestRepeatGuesserNotRescored(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")
	guesser := players[1]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: guesser.ID, Text: word})
	require.Equal(t, 50, guesser.Score)

	s.handle(cmdChat{RequesterID: guesser.ID, Text: word})

	assert.Equal(t, 50, guesser.Score)
	assert.True(t, s.roundActive, "round continues while Carol has not guessed")
}

func TestDrawerBonusGivenOnce(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")
	drawer := players[0]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: players[1].ID, Text: word})
	s.handle(cmdChat{RequesterID: players[2].ID, Text: word})

	assert.Equal(t, 5, drawer.Score)
}

func TestAllGuessedEndsRoundEarly(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: players[1].ID, Text: word})
	assert.True(t, s.roundActive)

	s.handle(cmdChat{RequesterID: players[2].ID, Text: word})
	assert.False(t, s.roundActive)

	ended := hub.lastOfType(ws.EventRoundEnded)
	require.NotNil(t, ended)
	assert.True(t, ended.Data.(ws.RoundEndedPayload).Revealed)
}

func TestEndRoundIsIdempotent(t *testing.T) {
	s, hub, _ := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	startActiveRound(t, s)
	require.Zero(t, s.room.DrawerIndex)

	s.endRound(false)
	s.endRound(false)
	s.endRound(true)

	assert.Equal(t, 1, hub.countType(ws.EventRoundEnded))
	assert.Equal(t, 1, s.room.DrawerIndex, "drawer advances exactly once")
}

func TestCountdownReachingZeroEndsRound(t *testing.T) {
	s, hub, _ := newTestSession(t, Config{RoundTime: 3 * time.Second, MaxRounds: 3}, "Alice", "Bob")

	startActiveRound(t, s)
	require.Equal(t, 3, s.timeLeft)

	s.handleTick()
	s.handleTick()
	assert.True(t, s.roundActive)
	assert.Equal(t, 2, hub.countType(ws.EventTime))

	s.handleTick()
	assert.False(t, s.roundActive)
	assert.Equal(t, 1, hub.countType(ws.EventRoundEnded))
}

func TestWordDeadlineAutoPicksFromIssuedCandidates(t *testing.T) {
	s, hub, _ := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	issued := append([]string(nil), s.candidates...)
	require.NotEmpty(t, issued)

	s.handle(cmdWordDeadline{Generation: s.generation})

	assert.True(t, s.roundActive)
	assert.Contains(t, issued, s.currentWord)
	assert.Contains(t, hub.systemMessages(), "Auto-picked a word. Round started.")
}

func TestStaleWordDeadlineIgnored(t *testing.T) {
	s, _, _ := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	s.handle(cmdWordDeadline{Generation: s.generation - 1})

	assert.False(t, s.roundActive)
	assert.Empty(t, s.currentWord)
}

func TestStaleNextRoundIgnored(t *testing.T) {
	s, _, _ := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	startActiveRound(t, s)
	s.endRound(false)
	require.Equal(t, 1, s.room.RoundNumber)

	s.handle(cmdNextRound{Generation: s.generation - 1})

	assert.Equal(t, 1, s.room.RoundNumber)
	assert.False(t, s.roundActive)
}

func TestChooseWordRejectsNonDrawerAndUnknownWord(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	word := s.candidates[0]

	s.handle(cmdChooseWord{RequesterID: players[1].ID, Word: word})
	assert.False(t, s.roundActive)

	s.handle(cmdChooseWord{RequesterID: players[0].ID, Word: "not-a-candidate"})
	assert.False(t, s.roundActive)

	s.handle(cmdChooseWord{RequesterID: players[0].ID, Word: word})
	assert.True(t, s.roundActive)
}

func TestStrokesAreDrawerOnlyWhileActive(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	drawer, other := players[0], players[1]

	// Before the round starts nothing is recorded.
	s.handle(cmdStroke{RequesterID: drawer.ID, Stroke: domain.Stroke{ID: "early"}})
	assert.Zero(t, s.ledger.Len())

	startActiveRound(t, s)

	s.handle(cmdStroke{RequesterID: other.ID, Stroke: domain.Stroke{ID: "intruder"}})
	assert.Zero(t, s.ledger.Len())

	s.handle(cmdStroke{RequesterID: drawer.ID, Stroke: domain.Stroke{ID: "s1"}})
	assert.Equal(t, 1, s.ledger.Len())
	assert.Equal(t, 1, hub.countType(ws.EventStroke))
}

func TestUndoIsDrawerOnly(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	drawer, other := players[0], players[1]

	startActiveRound(t, s)
	for _, id := range []string{"s1", "s2", "s3"} {
		s.handle(cmdStroke{RequesterID: drawer.ID, Stroke: domain.Stroke{ID: id}})
	}

	s.handle(cmdUndo{RequesterID: other.ID})
	assert.Equal(t, 3, s.ledger.Len())

	s.handle(cmdUndo{RequesterID: drawer.ID})
	replay := s.ledger.Replay()
	require.Len(t, replay, 2)
	assert.Equal(t, "s1", replay[0].ID)
	assert.Equal(t, "s2", replay[1].ID)

	undo := hub.lastOfType(ws.EventUndo)
	require.NotNil(t, undo)
	assert.Equal(t, "s3", undo.Data.(ws.UndoPayload).StrokeID)
}

func TestReplaySentToRequester(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")
	drawer, other := players[0], players[1]

	startActiveRound(t, s)
	s.handle(cmdStroke{RequesterID: drawer.ID, Stroke: domain.Stroke{ID: "s1"}})

	s.handle(cmdRequestReplay{RequesterID: other.ID})

	replay := hub.directOfType(other.ID, ws.EventReplayData)
	require.NotNil(t, replay)
	strokes := replay.Data.([]domain.Stroke)
	require.Len(t, strokes, 1)
	assert.Equal(t, "s1", strokes[0].ID)
}

func TestNonHostStartIgnored(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdStartGame{RequesterID: players[1].ID})

	assert.Zero(t, s.room.RoundNumber)
	assert.Zero(t, hub.countType(ws.EventRoundPrestart))
}

func TestCandidatesGoToDrawerOnly(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdStartGame{RequesterID: s.room.HostID})

	assert.NotNil(t, hub.directOfType(players[0].ID, ws.EventChooseWords))
	assert.Nil(t, hub.directOfType(players[1].ID, ws.EventChooseWords))
	assert.Zero(t, hub.countType(ws.EventChooseWords), "candidates must not be broadcast")
}

func TestUpdateSettingsHostOnlyWithBounds(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdUpdateSettings{RequesterID: players[1].ID, Update: SettingsUpdate{RoundTime: 90}})
	assert.Equal(t, time.Minute, s.room.Settings.RoundTime)

	host := s.room.HostID
	s.handle(cmdUpdateSettings{RequesterID: host, Update: SettingsUpdate{RoundTime: 90, MaxRounds: 5}})
	assert.Equal(t, 90*time.Second, s.room.Settings.RoundTime)
	assert.Equal(t, 5, s.room.Settings.MaxRounds)

	// Out-of-range and unknown values are dropped field by field.
	s.handle(cmdUpdateSettings{RequesterID: host, Update: SettingsUpdate{RoundTime: 5, Language: "klingon"}})
	assert.Equal(t, 90*time.Second, s.room.Settings.RoundTime)
	assert.Equal(t, domain.DefaultLanguage, s.room.Settings.Language)

	s.handle(cmdUpdateSettings{RequesterID: host, Update: SettingsUpdate{Language: "hindi", Category: "food"}})
	assert.Equal(t, "hindi", s.room.Settings.Language)
	assert.Equal(t, "food", s.room.Settings.Category)
}

func TestSetCustomWordsHostOnly(t *testing.T) {
	s, _, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	s.handle(cmdSetCustomWords{RequesterID: players[1].ID, Text: "x,y"})
	assert.Empty(t, s.room.Settings.CustomWords)

	s.handle(cmdSetCustomWords{RequesterID: s.room.HostID, Text: "alpha, beta ,, gamma"})
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, s.room.Settings.CustomWords)

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	for _, c := range s.candidates {
		assert.Contains(t, []string{"alpha", "beta", "gamma"}, c)
	}
}

func TestKickPlayer(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")
	target := players[1]

	// Non-host kicks are silent no-ops.
	s.handle(cmdKickPlayer{RequesterID: players[2].ID, TargetID: target.ID})
	assert.Len(t, s.room.Players, 3)

	s.handle(cmdKickPlayer{RequesterID: s.room.HostID, TargetID: target.ID})

	assert.Len(t, s.room.Players, 2)
	assert.Nil(t, s.room.FindPlayer(target.ID))
	assert.Contains(t, hub.systemMessages(), "Bob was kicked")
	assert.NotNil(t, hub.directOfType(target.ID, ws.EventKicked))
	assert.Contains(t, hub.closed, target.ID)
}

func TestDrawerLeavingEndsActiveRound(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob", "Carol")
	drawer := players[0]

	startActiveRound(t, s)
	s.handle(cmdLeave{PlayerID: drawer.ID})

	assert.Equal(t, 1, hub.countType(ws.EventRoundEnded))
	assert.Equal(t, players[1].ID, s.room.HostID)
	assert.Contains(t, hub.systemMessages(), "Host left — new host assigned")
	assert.False(t, s.disposed)
}

func TestLastPlayerLeavingDisposesRoom(t *testing.T) {
	room, err := domain.NewRoom(domain.Settings{RoundTime: time.Minute, MaxRounds: 3}, 0)
	require.NoError(t, err)

	var disposedCode string
	s := NewSession(room, defaultTestConfig(), Deps{Hub: newFakeHub()}, func(code string) {
		disposedCode = code
	})

	p, err := domain.NewPlayer("p1", "Alice")
	require.NoError(t, err)
	require.NoError(t, s.join(p))

	s.handle(cmdLeave{PlayerID: p.ID})

	assert.True(t, s.disposed)
	assert.Equal(t, room.Code, disposedCode)

	assert.ErrorIs(t, s.Join(p), domain.ErrRoomNotFound)
}

func TestPauseStopsRoundWithoutEnding(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	startActiveRound(t, s)

	s.handle(cmdPauseGame{RequesterID: players[1].ID})
	assert.True(t, s.roundActive)

	s.handle(cmdPauseGame{RequesterID: s.room.HostID})
	assert.False(t, s.roundActive)
	assert.Zero(t, hub.countType(ws.EventRoundEnded))
	assert.Contains(t, hub.systemMessages(), "Game paused by host")
}

func TestGameOverResetsRoomForReuse(t *testing.T) {
	s, hub, players := newTestSession(t, Config{RoundTime: time.Minute, MaxRounds: 1}, "Alice", "Bob")
	drawer, guesser := players[0], players[1]

	word := startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: guesser.ID, Text: word})

	over := hub.lastOfType(ws.EventGameOver)
	require.NotNil(t, over)
	finals := over.Data.(ws.GameOverPayload).Players
	assert.ElementsMatch(t, []ws.FinalScorePayload{
		{Name: "Alice", Score: 5},
		{Name: "Bob", Score: 50},
	}, finals)

	// The room is reusable without being recreated.
	assert.Zero(t, s.room.RoundNumber)
	assert.Zero(t, s.room.DrawerIndex)
	assert.Zero(t, drawer.Score)
	assert.Zero(t, guesser.Score)
	assert.False(t, s.disposed)

	s.handle(cmdStartGame{RequesterID: s.room.HostID})
	assert.Equal(t, 1, s.room.RoundNumber)
}

func TestShortGameEndToEnd(t *testing.T) {
	s, hub, players := newTestSession(t, Config{RoundTime: 5 * time.Second, MaxRounds: 1}, "Alice", "Bob")
	guesser := players[1]

	word := startActiveRound(t, s)
	require.Equal(t, 5, s.timeLeft)

	s.handleTick()
	s.handleTick()
	require.Equal(t, 3, s.timeLeft)

	s.handle(cmdChat{RequesterID: guesser.ID, Text: word})

	// 50 * 3/5 = 30 for the guesser, flat 5 for the drawer.
	over := hub.lastOfType(ws.EventGameOver)
	require.NotNil(t, over)
	assert.ElementsMatch(t, []ws.FinalScorePayload{
		{Name: "Alice", Score: 5},
		{Name: "Bob", Score: 30},
	}, over.Data.(ws.GameOverPayload).Players)

	assert.Equal(t, 1, hub.countType(ws.EventRoundEnded))
	assert.Equal(t, 1, hub.countType(ws.EventGameOver))
}

func TestWrongGuessIsBroadcastAsChat(t *testing.T) {
	s, hub, players := newTestSession(t, defaultTestConfig(), "Alice", "Bob")

	startActiveRound(t, s)
	s.handle(cmdChat{RequesterID: players[1].ID, Text: "definitely wrong"})

	chat := hub.lastOfType(ws.EventChat)
	require.NotNil(t, chat)
	payload := chat.Data.(ws.ChatPayload)
	assert.Equal(t, "Bob", payload.Name)
	assert.Equal(t, "definitely wrong", payload.Message)
	assert.Zero(t, players[1].Score)
}
