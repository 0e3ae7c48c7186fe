package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
	"github.com/scrawlhq/scrawl/internal/infrastructure/metrics"
	"github.com/scrawlhq/scrawl/internal/infrastructure/ws"
)

const (
	inboxSize = 64

	persistTimeout = 5 * time.Second

	minRoundTime = 10 * time.Second
	maxRoundTime = 10 * time.Minute
	maxMaxRounds = 50
)

// Broadcaster delivers frames to room members. Implemented by ws.Hub;
// faked in tests.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msg *ws.WSMessage)
	BroadcastToRoomExcept(roomCode, exceptID string, msg *ws.WSMessage)
	SendToPlayer(playerID string, msg *ws.WSMessage)
	ClosePlayer(playerID string)
}

// EventPublisher pushes lifecycle events to the broker. Best-effort only.
type EventPublisher interface {
	PublishRoomCreated(ctx context.Context, roomCode string, playerCount int) error
	PublishRoomDisposed(ctx context.Context, roomCode string) error
	PublishPlayerJoined(ctx context.Context, roomCode string, playerCount int) error
	PublishPlayerLeft(ctx context.Context, roomCode string, playerCount int) error
	PublishPlayerKicked(ctx context.Context, roomCode string, playerCount int) error
	PublishRoundEnded(ctx context.Context, roomCode string, roundNumber int, word string, strokeCount int) error
	PublishGameOver(ctx context.Context, roomCode string, scores map[string]int) error
}

// Config holds the server-wide game tunables.
type Config struct {
	RoundTime         time.Duration
	MaxRounds         int
	WordChoiceTimeout time.Duration
	InterRoundDelay   time.Duration
	MaxPlayers        int
	WordChoices       int
	LeaderboardLimit  int64
}

func (c Config) withDefaults() Config {
	if c.RoundTime <= 0 {
		c.RoundTime = 60 * time.Second
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = 8
	}
	if c.WordChoiceTimeout <= 0 {
		c.WordChoiceTimeout = 30 * time.Second
	}
	if c.InterRoundDelay <= 0 {
		c.InterRoundDelay = 3500 * time.Millisecond
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = 12
	}
	if c.WordChoices <= 0 {
		c.WordChoices = domain.DefaultWordChoices
	}
	if c.LeaderboardLimit <= 0 {
		c.LeaderboardLimit = 100
	}
	return c
}

// Deps are the collaborators a session needs. Rounds, Leaderboards,
// Publisher and Metrics may be nil; the session then skips those side
// effects.
type Deps struct {
	Hub          Broadcaster
	Logger       logging.Logger
	Rounds       domain.RoundRepository
	Leaderboards domain.LeaderboardRepository
	Publisher    EventPublisher
	Metrics      *metrics.GameMetrics
}

// Session owns one room. All state below is touched only by the Run
// goroutine; the rest of the process talks to it through the inbox.
type Session struct {
	room *domain.Room
	cfg  Config
	deps Deps

	inbox chan command
	done  chan struct{}

	ledger           *domain.StrokeLedger
	candidates       []string
	currentWord      string
	roundActive      bool
	timeLeft         int
	drawerBonusGiven bool

	generation     uint64
	wordTimer      *time.Timer
	nextRoundTimer *time.Timer
	ticker         *time.Ticker

	disposed  bool
	onDispose func(roomCode string)
}

func NewSession(room *domain.Room, cfg Config, deps Deps, onDispose func(roomCode string)) *Session {
	return &Session{
		room:      room,
		cfg:       cfg.withDefaults(),
		deps:      deps,
		inbox:     make(chan command, inboxSize),
		done:      make(chan struct{}),
		ledger:    domain.NewStrokeLedger(),
		onDispose: onDispose,
	}
}

// Run processes commands until the room is disposed. One goroutine per
// room; nothing else mutates room state.
func (s *Session) Run() {
	for {
		var tickC <-chan time.Time
		if s.ticker != nil {
			tickC = s.ticker.C
		}

		select {
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-tickC:
			s.handleTick()
		}

		if s.disposed {
			return
		}
	}
}

// post is safe from any goroutine; a disposed session swallows the
// command instead of blocking the sender.
func (s *Session) post(cmd command) {
	select {
	case <-s.done:
	case s.inbox <- cmd:
	}
}

// Join adds a player synchronously so the caller can surface roster
// errors on the join acknowledgment.
func (s *Session) Join(p *domain.Player) error {
	reply := make(chan error, 1)

	select {
	case <-s.done:
		return domain.ErrRoomNotFound
	case s.inbox <- cmdJoin{Player: p, Reply: reply}:
	}

	select {
	case <-s.done:
		return domain.ErrRoomNotFound
	case err := <-reply:
		return err
	}
}

func (s *Session) Leave(playerID string) {
	s.post(cmdLeave{PlayerID: playerID})
}

// Dispatch routes a decoded client command into the session.
func (s *Session) Dispatch(playerID string, msg *ws.ClientMessage) {
	switch msg.Type {
	case ws.CmdStartGame:
		s.post(cmdStartGame{RequesterID: playerID})
	case ws.CmdPauseGame:
		s.post(cmdPauseGame{RequesterID: playerID})
	case ws.CmdChooseWord:
		var data struct {
			Word string `json:"word"`
		}
		if err := unmarshalData(msg.Data, &data); err != nil {
			return
		}
		s.post(cmdChooseWord{RequesterID: playerID, Word: data.Word})
	case ws.CmdStroke:
		var stroke domain.Stroke
		if err := unmarshalData(msg.Data, &stroke); err != nil {
			return
		}
		s.post(cmdStroke{RequesterID: playerID, Stroke: stroke})
	case ws.CmdUndo:
		s.post(cmdUndo{RequesterID: playerID})
	case ws.CmdChat:
		var data struct {
			Text string `json:"text"`
		}
		if err := unmarshalData(msg.Data, &data); err != nil {
			return
		}
		s.post(cmdChat{RequesterID: playerID, Text: data.Text})
	case ws.CmdUpdateSettings:
		var update SettingsUpdate
		if err := unmarshalData(msg.Data, &update); err != nil {
			return
		}
		s.post(cmdUpdateSettings{RequesterID: playerID, Update: update})
	case ws.CmdSetCustomWords:
		var data struct {
			Text string `json:"text"`
		}
		if err := unmarshalData(msg.Data, &data); err != nil {
			return
		}
		s.post(cmdSetCustomWords{RequesterID: playerID, Text: data.Text})
	case ws.CmdKickPlayer:
		var data struct {
			PlayerID string `json:"playerId"`
		}
		if err := unmarshalData(msg.Data, &data); err != nil {
			return
		}
		s.post(cmdKickPlayer{RequesterID: playerID, TargetID: data.PlayerID})
	case ws.CmdRequestReplay:
		s.post(cmdRequestReplay{RequesterID: playerID})
	case ws.CmdRequestLastSavedRound:
		s.post(cmdRequestLastSavedRound{RequesterID: playerID})
	case ws.CmdGetLeaderboard:
		s.post(cmdGetLeaderboard{RequesterID: playerID})
	}
}

// SendState asks the session to push a room snapshot to one player.
func (s *Session) SendState(playerID string) {
	s.post(cmdSendState{PlayerID: playerID})
}

func (s *Session) Shutdown() {
	s.post(cmdShutdown{})
}

func (s *Session) handle(cmd command) {
	switch c := cmd.(type) {
	case cmdJoin:
		c.Reply <- s.join(c.Player)
	case cmdLeave:
		s.leave(c.PlayerID)
	case cmdStartGame:
		s.startGame(c.RequesterID)
	case cmdPauseGame:
		s.pauseGame(c.RequesterID)
	case cmdChooseWord:
		s.chooseWord(c.RequesterID, c.Word)
	case cmdStroke:
		s.stroke(c.RequesterID, c.Stroke)
	case cmdUndo:
		s.undo(c.RequesterID)
	case cmdChat:
		s.chat(c.RequesterID, c.Text)
	case cmdUpdateSettings:
		s.updateSettings(c.RequesterID, c.Update)
	case cmdSetCustomWords:
		s.setCustomWords(c.RequesterID, c.Text)
	case cmdKickPlayer:
		s.kickPlayer(c.RequesterID, c.TargetID)
	case cmdRequestReplay:
		s.sendReplay(c.RequesterID)
	case cmdRequestLastSavedRound:
		s.sendLastSavedRound(c.RequesterID)
	case cmdGetLeaderboard:
		s.sendLeaderboard(c.RequesterID)
	case cmdSendState:
		s.deps.Hub.SendToPlayer(c.PlayerID, ws.NewRoomState(s.room.Code, s.snapshot()))
	case cmdWordDeadline:
		s.wordDeadline(c.Generation)
	case cmdNextRound:
		s.nextRound(c.Generation)
	case cmdShutdown:
		s.dispose(false)
	}
}

// ---------- roster ----------

func (s *Session) join(p *domain.Player) error {
	if err := s.room.AddPlayer(p); err != nil {
		return err
	}

	s.broadcast(ws.NewSystemMessage(s.room.Code, fmt.Sprintf("%s joined the room", p.Name)))
	s.broadcastState()

	if s.deps.Metrics != nil {
		s.deps.Metrics.PlayersOnline.Inc()
	}
	s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
		return pub.PublishPlayerJoined(ctx, s.room.Code, len(s.room.Players))
	})
	return nil
}

func (s *Session) leave(playerID string) {
	wasDrawer := s.room.DrawerID() == playerID
	wasHost := s.room.IsHost(playerID)

	removed, err := s.room.RemovePlayer(playerID)
	if err != nil {
		// Already gone, e.g. kicked right before the socket closed.
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.PlayersOnline.Dec()
	}

	if len(s.room.Players) == 0 {
		s.dispose(true)
		return
	}

	s.broadcast(ws.NewSystemMessage(s.room.Code, fmt.Sprintf("%s left", removed.Name)))
	if wasHost {
		s.broadcast(ws.NewSystemMessage(s.room.Code, "Host left — new host assigned"))
	}
	if s.roundActive && wasDrawer {
		s.endRound(false)
	}
	s.broadcastState()

	s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
		return pub.PublishPlayerLeft(ctx, s.room.Code, len(s.room.Players))
	})
}

func (s *Session) kickPlayer(requesterID, targetID string) {
	if !s.room.IsHost(requesterID) {
		return
	}

	wasDrawer := s.room.DrawerID() == targetID
	removed, err := s.room.RemovePlayer(targetID)
	if err != nil {
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.PlayersOnline.Dec()
	}

	s.broadcast(ws.NewSystemMessage(s.room.Code, fmt.Sprintf("%s was kicked", removed.Name)))
	s.deps.Hub.SendToPlayer(targetID, ws.NewKicked(s.room.Code, "Kicked by host"))
	s.deps.Hub.ClosePlayer(targetID)

	if len(s.room.Players) == 0 {
		s.dispose(true)
		return
	}

	if s.roundActive && wasDrawer {
		s.endRound(false)
	}
	s.broadcastState()

	s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
		return pub.PublishPlayerKicked(ctx, s.room.Code, len(s.room.Players))
	})
}

// ---------- settings ----------

func (s *Session) updateSettings(requesterID string, update SettingsUpdate) {
	if !s.room.IsHost(requesterID) {
		return
	}

	if update.RoundTime > 0 {
		rt := time.Duration(update.RoundTime) * time.Second
		if rt >= minRoundTime && rt <= maxRoundTime {
			s.room.Settings.RoundTime = rt
		}
	}
	if update.MaxRounds > 0 && update.MaxRounds <= maxMaxRounds {
		s.room.Settings.MaxRounds = update.MaxRounds
	}
	if update.Language != "" && domain.KnownLanguage(update.Language) {
		s.room.Settings.Language = update.Language
	}
	if update.Category != "" && domain.KnownCategory(s.room.Settings.Language, update.Category) {
		s.room.Settings.Category = update.Category
	}

	s.broadcast(ws.NewSystemMessage(s.room.Code, "Host updated settings"))
	s.broadcastState()
}

func (s *Session) setCustomWords(requesterID, text string) {
	if !s.room.IsHost(requesterID) {
		return
	}

	s.room.Settings.CustomWords = domain.ParseCustomWords(text)
	s.broadcast(ws.NewSystemMessage(s.room.Code, "Host updated custom words"))
	s.broadcastState()
}

// ---------- round flow ----------

func (s *Session) startGame(requesterID string) {
	if !s.room.IsHost(requesterID) {
		return
	}
	s.startRound()
}

func (s *Session) startRound() {
	if s.roundActive || len(s.room.Players) == 0 {
		return
	}

	s.room.RoundNumber++
	if s.room.RoundNumber > s.room.Settings.MaxRounds {
		s.gameOver()
		return
	}

	s.room.ResetGuesses()
	s.ledger.Clear()
	s.currentWord = ""
	s.drawerBonusGiven = false
	s.candidates = domain.PickCandidates(
		s.room.Settings.CustomWords,
		s.room.Settings.Language,
		s.room.Settings.Category,
		s.cfg.WordChoices,
	)

	drawer := s.room.Drawer()
	s.broadcast(ws.NewRoundPrestart(s.room.Code, ws.RoundPrestartPayload{
		DrawerID:    drawer.ID,
		DrawerName:  drawer.Name,
		RoundNumber: s.room.RoundNumber,
		MaxRounds:   s.room.Settings.MaxRounds,
	}))
	s.broadcast(ws.NewSystemMessage(s.room.Code, fmt.Sprintf("%s is choosing a word", drawer.Name)))
	// Candidates go to the drawer only.
	s.deps.Hub.SendToPlayer(drawer.ID, ws.NewChooseWords(s.room.Code, s.candidates))
	s.broadcastState()

	s.generation++
	gen := s.generation
	s.wordTimer = time.AfterFunc(s.cfg.WordChoiceTimeout, func() {
		s.post(cmdWordDeadline{Generation: gen})
	})
}

func (s *Session) chooseWord(requesterID, word string) {
	if s.roundActive || s.currentWord != "" {
		return
	}
	if s.room.DrawerID() != requesterID {
		return
	}
	if !containsWord(s.candidates, word) {
		return
	}

	s.beginActive(word)
	s.broadcast(ws.NewSystemMessage(s.room.Code, "Drawer chose a word. Round started."))
}

func (s *Session) wordDeadline(gen uint64) {
	if gen != s.generation || s.roundActive || s.currentWord != "" {
		return
	}
	if len(s.candidates) == 0 || len(s.room.Players) == 0 {
		return
	}

	pick := s.candidates[rand.Intn(len(s.candidates))]
	s.beginActive(pick)
	s.broadcast(ws.NewSystemMessage(s.room.Code, "Auto-picked a word. Round started."))
}

// beginActive commits the secret word and starts the countdown. Shared by
// the manual choice and the deadline auto-pick.
func (s *Session) beginActive(word string) {
	s.stopWordTimer()
	s.generation++

	s.currentWord = word
	s.candidates = nil
	s.roundActive = true
	s.timeLeft = int(s.room.Settings.RoundTime / time.Second)

	drawer := s.room.Drawer()
	s.deps.Hub.SendToPlayer(drawer.ID, ws.NewYourWord(s.room.Code, word))
	s.broadcast(ws.NewRoundStarted(s.room.Code, ws.RoundStartedPayload{
		DrawerID:    drawer.ID,
		DrawerName:  drawer.Name,
		RoundNumber: s.room.RoundNumber,
		MaxRounds:   s.room.Settings.MaxRounds,
		TimeLeft:    s.timeLeft,
	}))

	s.ticker = time.NewTicker(time.Second)
}

func (s *Session) handleTick() {
	if !s.roundActive {
		return
	}

	s.timeLeft--
	s.broadcast(ws.NewTime(s.room.Code, s.timeLeft))
	if s.timeLeft <= 0 {
		s.endRound(false)
	}
}

// endRound is reachable from the countdown, the all-guessed check and
// drawer departure. The roundActive guard makes the first caller win and
// the rest no-ops.
func (s *Session) endRound(revealed bool) {
	if !s.roundActive {
		return
	}
	s.roundActive = false

	s.stopTicker()
	s.stopWordTimer()
	s.generation++

	s.broadcast(ws.NewRoundEnded(s.room.Code, s.currentWord, revealed))
	s.persistRound()
	if s.deps.Metrics != nil {
		s.deps.Metrics.RoundsPlayed.Inc()
	}

	s.room.AdvanceDrawer()

	if s.room.RoundNumber < s.room.Settings.MaxRounds && len(s.room.Players) > 0 {
		gen := s.generation
		s.nextRoundTimer = time.AfterFunc(s.cfg.InterRoundDelay, func() {
			s.post(cmdNextRound{Generation: gen})
		})
	} else {
		s.gameOver()
	}
}

func (s *Session) nextRound(gen uint64) {
	if gen != s.generation || s.roundActive {
		return
	}
	s.startRound()
}

func (s *Session) gameOver() {
	finals := make([]ws.FinalScorePayload, 0, len(s.room.Players))
	scores := make(map[string]int, len(s.room.Players))
	for _, p := range s.room.Players {
		finals = append(finals, ws.FinalScorePayload{Name: p.Name, Score: p.Score})
		scores[p.Name] = p.Score
	}

	s.broadcast(ws.NewGameOver(s.room.Code, finals))
	s.persistLeaderboard()
	if s.deps.Metrics != nil {
		s.deps.Metrics.GamesCompleted.Inc()
	}
	s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
		return pub.PublishGameOver(ctx, s.room.Code, scores)
	})

	// The room is reusable for another game without being recreated.
	s.room.ResetGame()
	s.broadcastState()
}

func (s *Session) pauseGame(requesterID string) {
	if !s.room.IsHost(requesterID) {
		return
	}
	if !s.roundActive {
		return
	}

	s.roundActive = false
	s.stopTicker()
	s.stopWordTimer()
	s.generation++

	s.broadcast(ws.NewSystemMessage(s.room.Code, "Game paused by host"))
	s.broadcastState()
}

// ---------- strokes ----------

func (s *Session) stroke(requesterID string, stroke domain.Stroke) {
	if !s.roundActive {
		return
	}
	if s.room.DrawerID() != requesterID {
		return
	}

	s.ledger.Append(stroke)
	s.deps.Hub.BroadcastToRoomExcept(s.room.Code, requesterID, ws.NewStroke(s.room.Code, stroke))
	if s.deps.Metrics != nil {
		s.deps.Metrics.StrokesDrawn.Inc()
	}
}

func (s *Session) undo(requesterID string) {
	if s.room.DrawerID() != requesterID {
		return
	}

	removed, ok := s.ledger.UndoLast()
	if !ok {
		return
	}
	s.broadcast(ws.NewUndo(s.room.Code, removed.ID))
}

func (s *Session) sendReplay(requesterID string) {
	s.deps.Hub.SendToPlayer(requesterID, ws.NewReplayData(s.room.Code, s.ledger.Replay()))
}

// ---------- chat & scoring ----------

func (s *Session) chat(requesterID, text string) {
	player := s.room.FindPlayer(requesterID)
	if player == nil {
		return
	}

	message := strings.TrimSpace(text)
	if message == "" {
		return
	}

	if s.isCorrectGuess(player, message) {
		s.scoreGuess(player)
		return
	}

	s.broadcast(ws.NewChat(s.room.Code, player.Name, message))
}

func (s *Session) isCorrectGuess(player *domain.Player, message string) bool {
	if !s.roundActive || s.currentWord == "" {
		return false
	}
	if player.ID == s.room.DrawerID() || player.HasGuessed {
		return false
	}
	return strings.EqualFold(message, s.currentWord)
}

func (s *Session) scoreGuess(player *domain.Player) {
	roundSeconds := int(s.room.Settings.RoundTime / time.Second)
	points := GuessPoints(s.timeLeft, roundSeconds)

	player.Score += points
	player.HasGuessed = true

	if !s.drawerBonusGiven {
		if drawer := s.room.Drawer(); drawer != nil {
			drawer.Score += drawerBonus
			s.drawerBonusGiven = true
		}
	}

	// Announce instead of echoing so the answer doesn't leak into chat.
	s.broadcast(ws.NewSystemMessage(s.room.Code, fmt.Sprintf("%s guessed correctly! (+%d)", player.Name, points)))
	s.broadcastState()
	if s.deps.Metrics != nil {
		s.deps.Metrics.CorrectGuesses.Inc()
	}

	if s.room.AllGuessed() {
		s.endRound(true)
	}
}

const drawerBonus = 5

// GuessPoints scales the award by remaining time, floored at 10.
func GuessPoints(timeLeft, roundSeconds int) int {
	if roundSeconds <= 0 {
		return minGuessPoints
	}
	points := 50 * timeLeft / roundSeconds
	if points < minGuessPoints {
		points = minGuessPoints
	}
	return points
}

const minGuessPoints = 10

// ---------- lookups ----------

func (s *Session) sendLastSavedRound(requesterID string) {
	if s.deps.Rounds == nil {
		s.deps.Hub.SendToPlayer(requesterID, ws.NewLastSavedRound(s.room.Code, ws.LastSavedRoundPayload{OK: false, Message: "no rounds"}))
		return
	}

	roomCode := s.room.Code
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		record, err := s.deps.Rounds.GetLastByRoomCode(ctx, roomCode)
		if err != nil {
			payload := ws.LastSavedRoundPayload{OK: false, Message: "no rounds"}
			if !errors.Is(err, domain.ErrNoRounds) {
				s.logError("last saved round lookup failed", err)
				payload.Message = "lookup failed"
			}
			s.deps.Hub.SendToPlayer(requesterID, ws.NewLastSavedRound(roomCode, payload))
			return
		}

		s.deps.Hub.SendToPlayer(requesterID, ws.NewLastSavedRound(roomCode, ws.LastSavedRoundPayload{
			OK:          true,
			Strokes:     record.Strokes,
			Word:        record.Word,
			RoundNumber: record.RoundNumber,
		}))
	}()
}

func (s *Session) sendLeaderboard(requesterID string) {
	if s.deps.Leaderboards == nil {
		s.deps.Hub.SendToPlayer(requesterID, ws.NewLeaderboard(s.room.Code, nil))
		return
	}

	roomCode := s.room.Code
	limit := s.cfg.LeaderboardLimit
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		rows, err := s.deps.Leaderboards.MostRecent(ctx, limit)
		if err != nil {
			s.logError("leaderboard lookup failed", err)
			rows = nil
		}
		s.deps.Hub.SendToPlayer(requesterID, ws.NewLeaderboard(roomCode, rows))
	}()
}

// ---------- persistence side effects ----------

func (s *Session) persistRound() {
	if s.deps.Rounds == nil {
		return
	}

	record := domain.NewRoundRecord(
		s.room.Code,
		s.room.RoundNumber,
		s.ledger.Replay(),
		s.currentWord,
		s.room.Settings.Language,
		s.room.Settings.Category,
	)
	strokeCount := len(record.Strokes)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.deps.Rounds.Save(ctx, record); err != nil {
			s.logError("round snapshot save failed", err)
		}
	}()

	s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
		return pub.PublishRoundEnded(ctx, record.RoomCode, record.RoundNumber, record.Word, strokeCount)
	})
}

func (s *Session) persistLeaderboard() {
	if s.deps.Leaderboards == nil {
		return
	}

	entries := make([]domain.LeaderboardEntry, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		entries = append(entries, domain.NewLeaderboardEntry(s.room.Code, p.Name, p.Score))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.deps.Leaderboards.SaveEntries(ctx, entries); err != nil {
			s.logError("leaderboard save failed", err)
		}
	}()
}

// ---------- lifecycle ----------

func (s *Session) dispose(publish bool) {
	if s.disposed {
		return
	}
	s.disposed = true
	close(s.done)
	s.roundActive = false
	s.stopTicker()
	s.stopWordTimer()
	s.stopNextRoundTimer()
	s.generation++

	if publish {
		s.publishAsync(func(ctx context.Context, pub EventPublisher) error {
			return pub.PublishRoomDisposed(ctx, s.room.Code)
		})
	}
	if s.onDispose != nil {
		s.onDispose(s.room.Code)
	}
}

// ---------- helpers ----------

func (s *Session) broadcast(msg *ws.WSMessage) {
	s.deps.Hub.BroadcastToRoom(s.room.Code, msg)
}

func (s *Session) broadcastState() {
	s.broadcast(ws.NewRoomState(s.room.Code, s.snapshot()))
}

func (s *Session) snapshot() ws.RoomStatePayload {
	players := make([]ws.PlayerPayload, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		players = append(players, ws.PlayerPayload{
			ID:         p.ID,
			Name:       p.Name,
			Score:      p.Score,
			HasGuessed: p.HasGuessed,
		})
	}

	return ws.RoomStatePayload{
		Players:     players,
		HostID:      s.room.HostID,
		DrawerID:    s.room.DrawerID(),
		RoundActive: s.roundActive,
		RoundNumber: s.room.RoundNumber,
		MaxRounds:   s.room.Settings.MaxRounds,
		TimeLeft:    s.timeLeft,
		RoundTime:   int(s.room.Settings.RoundTime / time.Second),
		Settings: ws.SettingsPayload{
			Language:    s.room.Settings.Language,
			Category:    s.room.Settings.Category,
			CustomWords: s.room.Settings.CustomWords,
		},
	}
}

func (s *Session) publishAsync(publish func(ctx context.Context, pub EventPublisher) error) {
	if s.deps.Publisher == nil {
		return
	}
	pub := s.deps.Publisher
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := publish(ctx, pub); err != nil {
			s.logError("event publish failed", err)
		}
	}()
}

func (s *Session) logError(msg string, err error) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.Error(logging.Game, logging.Persistence, msg, map[logging.ExtraKey]any{
		logging.RoomCode:     s.room.Code,
		logging.ErrorMessage: err.Error(),
	})
}

func (s *Session) stopWordTimer() {
	if s.wordTimer != nil {
		s.wordTimer.Stop()
		s.wordTimer = nil
	}
}

func (s *Session) stopNextRoundTimer() {
	if s.nextRoundTimer != nil {
		s.nextRoundTimer.Stop()
		s.nextRoundTimer = nil
	}
}

func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func unmarshalData(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty payload")
	}
	return json.Unmarshal(data, v)
}

func containsWord(candidates []string, word string) bool {
	for _, c := range candidates {
		if c == word {
			return true
		}
	}
	return false
}
