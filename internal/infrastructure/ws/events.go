package ws

import "github.com/scrawlhq/scrawl/internal/domain"

// Server→client event types.
const (
	EventRoomState      = "roomState"
	EventRoundPrestart  = "roundPrestart"
	EventChooseWords    = "chooseWords"
	EventRoundStarted   = "roundStarted"
	EventYourWord       = "yourWord"
	EventTime           = "time"
	EventRoundEnded     = "roundEnded"
	EventGameOver       = "gameOver"
	EventKicked         = "kicked"
	EventSystemMessage  = "systemMessage"
	EventChat           = "chat"
	EventStroke         = "stroke"
	EventUndo           = "undo"
	EventReplayData     = "replayData"
	EventLastSavedRound = "lastSavedRound"
	EventLeaderboard    = "leaderboard"

	EventError = "error"
)

// Payload structs
type PlayerPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	HasGuessed bool   `json:"hasGuessed"`
}

type SettingsPayload struct {
	Language    string   `json:"language"`
	Category    string   `json:"category"`
	CustomWords []string `json:"customWords"`
}

type RoomStatePayload struct {
	Players     []PlayerPayload `json:"players"`
	HostID      string          `json:"hostId"`
	DrawerID    string          `json:"drawerId"`
	RoundActive bool            `json:"roundActive"`
	RoundNumber int             `json:"roundNumber"`
	MaxRounds   int             `json:"maxRounds"`
	TimeLeft    int             `json:"timeLeft"`
	RoundTime   int             `json:"roundTime"`
	Settings    SettingsPayload `json:"settings"`
}

type RoundPrestartPayload struct {
	DrawerID    string `json:"drawerId"`
	DrawerName  string `json:"drawerName"`
	RoundNumber int    `json:"roundNumber"`
	MaxRounds   int    `json:"maxRounds"`
}

type RoundStartedPayload struct {
	DrawerID    string `json:"drawerId"`
	DrawerName  string `json:"drawerName"`
	RoundNumber int    `json:"roundNumber"`
	MaxRounds   int    `json:"maxRounds"`
	TimeLeft    int    `json:"timeLeft"`
}

type RoundEndedPayload struct {
	Word     string `json:"word"`
	Revealed bool   `json:"revealed"`
}

type GameOverPayload struct {
	Players []FinalScorePayload `json:"players"`
}

type FinalScorePayload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type ChatPayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type UndoPayload struct {
	StrokeID string `json:"strokeId"`
}

type KickedPayload struct {
	Reason string `json:"reason"`
}

type LastSavedRoundPayload struct {
	OK          bool            `json:"ok"`
	Strokes     []domain.Stroke `json:"strokes,omitempty"`
	Word        string          `json:"word,omitempty"`
	RoundNumber int             `json:"roundNumber,omitempty"`
	Message     string          `json:"message,omitempty"`
}

type LeaderboardPayload struct {
	Rows []domain.LeaderboardEntry `json:"rows"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewRoomState(roomCode string, payload RoomStatePayload) *WSMessage {
	return &WSMessage{Type: EventRoomState, RoomID: roomCode, Data: payload}
}

func NewRoundPrestart(roomCode string, payload RoundPrestartPayload) *WSMessage {
	return &WSMessage{Type: EventRoundPrestart, RoomID: roomCode, Data: payload}
}

func NewChooseWords(roomCode string, candidates []string) *WSMessage {
	return &WSMessage{Type: EventChooseWords, RoomID: roomCode, Data: candidates}
}

func NewRoundStarted(roomCode string, payload RoundStartedPayload) *WSMessage {
	return &WSMessage{Type: EventRoundStarted, RoomID: roomCode, Data: payload}
}

func NewYourWord(roomCode, word string) *WSMessage {
	return &WSMessage{Type: EventYourWord, RoomID: roomCode, Data: word}
}

func NewTime(roomCode string, secondsLeft int) *WSMessage {
	return &WSMessage{Type: EventTime, RoomID: roomCode, Data: secondsLeft}
}

func NewRoundEnded(roomCode, word string, revealed bool) *WSMessage {
	return &WSMessage{Type: EventRoundEnded, RoomID: roomCode, Data: RoundEndedPayload{Word: word, Revealed: revealed}}
}

func NewGameOver(roomCode string, players []FinalScorePayload) *WSMessage {
	return &WSMessage{Type: EventGameOver, RoomID: roomCode, Data: GameOverPayload{Players: players}}
}

func NewKicked(roomCode, reason string) *WSMessage {
	return &WSMessage{Type: EventKicked, RoomID: roomCode, Data: KickedPayload{Reason: reason}}
}

func NewSystemMessage(roomCode, text string) *WSMessage {
	return &WSMessage{Type: EventSystemMessage, RoomID: roomCode, Data: text}
}

func NewChat(roomCode, name, message string) *WSMessage {
	return &WSMessage{Type: EventChat, RoomID: roomCode, Data: ChatPayload{Name: name, Message: message}}
}

func NewStroke(roomCode string, stroke domain.Stroke) *WSMessage {
	return &WSMessage{Type: EventStroke, RoomID: roomCode, Data: stroke}
}

func NewUndo(roomCode, strokeID string) *WSMessage {
	return &WSMessage{Type: EventUndo, RoomID: roomCode, Data: UndoPayload{StrokeID: strokeID}}
}

func NewReplayData(roomCode string, strokes []domain.Stroke) *WSMessage {
	return &WSMessage{Type: EventReplayData, RoomID: roomCode, Data: strokes}
}

func NewLastSavedRound(roomCode string, payload LastSavedRoundPayload) *WSMessage {
	return &WSMessage{Type: EventLastSavedRound, RoomID: roomCode, Data: payload}
}

func NewLeaderboard(roomCode string, rows []domain.LeaderboardEntry) *WSMessage {
	return &WSMessage{Type: EventLeaderboard, RoomID: roomCode, Data: LeaderboardPayload{Rows: rows}}
}

func NewError(roomCode, code, message string) *WSMessage {
	return &WSMessage{Type: EventError, RoomID: roomCode, Data: ErrorPayload{Code: code, Message: message}}
}
