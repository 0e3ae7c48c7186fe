package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	roomCodeLength = 5

	// No ambiguous characters (I, L, O, 0, 1) so codes stay typable.
	roomCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

var (
	charsetLen = big.NewInt(int64(len(roomCodeChars)))

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrNameTaken      = errors.New("name already taken in this room")
	ErrAlreadyJoined  = errors.New("already joined this room")
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// Settings are the host-tunable knobs of a room.
type Settings struct {
	RoundTime   time.Duration `json:"-"`
	MaxRounds   int           `json:"maxRounds"`
	Language    string        `json:"language"`
	Category    string        `json:"category"`
	CustomWords []string      `json:"customWords"`
}

// Room is one isolated game session. All mutation happens on the owning
// session goroutine, so the type carries no locks.
type Room struct {
	Code        string        `json:"code"`
	HostID      string        `json:"hostId"`
	Players     []*Player     `json:"players"`
	DrawerIndex int           `json:"-"`
	RoundNumber int           `json:"roundNumber"`
	Settings    Settings      `json:"settings"`
	MaxPlayers  int           `json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func NewRoom(settings Settings, maxPlayers int) (*Room, error) {
	code, err := generateRoomCode()
	if err != nil {
		return nil, err
	}

	if settings.Language == "" || !KnownLanguage(settings.Language) {
		settings.Language = DefaultLanguage
	}
	if settings.Category == "" {
		settings.Category = DefaultCategory
	}

	return &Room{
		Code:       code,
		Players:    make([]*Player, 0, maxPlayers),
		Settings:   settings,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now(),
	}, nil
}

// AddPlayer appends at the end of the roster; insertion order is turn order.
// The first player to join becomes host.
func (r *Room) AddPlayer(p *Player) error {
	if p == nil {
		return ErrPlayerNotFound
	}
	if r.MaxPlayers > 0 && len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}
	for _, existing := range r.Players {
		if existing.ID == p.ID {
			return ErrAlreadyJoined
		}
		if strings.EqualFold(existing.Name, p.Name) {
			return ErrNameTaken
		}
	}

	r.Players = append(r.Players, p)
	if r.HostID == "" {
		r.HostID = p.ID
	}
	return nil
}

// RemovePlayer drops a player while preserving roster order, since roster
// order is turn order. If the host left, the new first roster member is
// promoted. The drawer index is clamped back into range.
func (r *Room) RemovePlayer(playerID string) (*Player, error) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrPlayerNotFound
	}

	removed := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.HostID == playerID {
		if len(r.Players) > 0 {
			r.HostID = r.Players[0].ID
		} else {
			r.HostID = ""
		}
	}
	if r.DrawerIndex >= len(r.Players) {
		r.DrawerIndex = 0
	}
	return removed, nil
}

func (r *Room) FindPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) IsHost(playerID string) bool {
	return r.HostID != "" && r.HostID == playerID
}

// Drawer returns the current drawer, or nil for an empty roster.
func (r *Room) Drawer() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[r.DrawerIndex%len(r.Players)]
}

func (r *Room) DrawerID() string {
	if d := r.Drawer(); d != nil {
		return d.ID
	}
	return ""
}

// AdvanceDrawer moves the rotation one step.
func (r *Room) AdvanceDrawer() {
	r.DrawerIndex = NextDrawerIndex(r.DrawerIndex, len(r.Players))
}

// NextDrawerIndex is the rotation rule: increment modulo roster length,
// clamping a stale index back into range first.
func NextDrawerIndex(prev, rosterLen int) int {
	if rosterLen <= 0 {
		return 0
	}
	return (prev%rosterLen + 1) % rosterLen
}

// ResetGuesses clears the per-round guessed flags on every player.
func (r *Room) ResetGuesses() {
	for _, p := range r.Players {
		p.HasGuessed = false
	}
}

// AllGuessed reports whether every non-drawing player has guessed the word.
// A roster with nobody to guess never counts as all-guessed.
func (r *Room) AllGuessed() bool {
	drawerID := r.DrawerID()
	guessers := 0
	for _, p := range r.Players {
		if p.ID == drawerID {
			continue
		}
		guessers++
		if !p.HasGuessed {
			return false
		}
	}
	return guessers > 0
}

// ResetGame returns the room to its initial state so it can host another
// game without being recreated.
func (r *Room) ResetGame() {
	for _, p := range r.Players {
		p.Score = 0
		p.HasGuessed = false
	}
	r.RoundNumber = 0
	r.DrawerIndex = 0
}

func generateRoomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(roomCodeLength)

	for i := 0; i < roomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(roomCodeChars[n.Int64()])
	}

	return sb.String(), nil
}
