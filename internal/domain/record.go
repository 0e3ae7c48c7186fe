package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoRounds = errors.New("no rounds saved for this room")

// RoundRecord is the persisted snapshot of a finished round. Write path
// only from gameplay; reads serve the "last saved round" lookup.
type RoundRecord struct {
	ID          string    `bson:"_id" json:"id"`
	RoomCode    string    `bson:"room_code" json:"roomCode"`
	RoundNumber int       `bson:"round_number" json:"roundNumber"`
	Strokes     []Stroke  `bson:"strokes" json:"strokes"`
	Word        string    `bson:"word" json:"word"`
	Language    string    `bson:"language" json:"language"`
	Category    string    `bson:"category" json:"category"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// LeaderboardEntry is one player's final score from a finished game.
type LeaderboardEntry struct {
	ID         string    `bson:"_id" json:"id"`
	RoomCode   string    `bson:"room_code" json:"roomCode"`
	PlayerName string    `bson:"player_name" json:"playerName"`
	Score      int       `bson:"score" json:"score"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

type RoundRepository interface {
	Save(ctx context.Context, record *RoundRecord) error
	GetLastByRoomCode(ctx context.Context, roomCode string) (*RoundRecord, error)
	EnsureIndexes(ctx context.Context) error
}

type LeaderboardRepository interface {
	SaveEntries(ctx context.Context, entries []LeaderboardEntry) error
	MostRecent(ctx context.Context, limit int64) ([]LeaderboardEntry, error)
	EnsureIndexes(ctx context.Context) error
}

func NewRoundRecord(roomCode string, roundNumber int, strokes []Stroke, word, language, category string) *RoundRecord {
	return &RoundRecord{
		ID:          uuid.NewString(),
		RoomCode:    roomCode,
		RoundNumber: roundNumber,
		Strokes:     strokes,
		Word:        word,
		Language:    language,
		Category:    category,
		CreatedAt:   time.Now(),
	}
}

func NewLeaderboardEntry(roomCode, playerName string, score int) LeaderboardEntry {
	return LeaderboardEntry{
		ID:         uuid.NewString(),
		RoomCode:   roomCode,
		PlayerName: playerName,
		Score:      score,
		CreatedAt:  time.Now(),
	}
}
