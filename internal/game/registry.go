package game

import (
	"context"
	"errors"
	"sync"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
	"github.com/scrawlhq/scrawl/internal/infrastructure/ws"
)

var ErrServerFull = errors.New("room capacity reached")

// Registry owns the table of live rooms. Each room gets its own Session
// goroutine; the registry only routes.
type Registry struct {
	cfg      Config
	deps     Deps
	capacity uint

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config, deps Deps, capacity uint) *Registry {
	return &Registry{
		cfg:      cfg.withDefaults(),
		deps:     deps,
		capacity: capacity,
		sessions: make(map[string]*Session),
	}
}

// CreateRoom builds a room with a code unique among live rooms and starts
// its session goroutine. The creator joins over the socket afterwards.
func (r *Registry) CreateRoom(settings domain.Settings) (*domain.Room, error) {
	if settings.RoundTime <= 0 {
		settings.RoundTime = r.cfg.RoundTime
	}
	if settings.MaxRounds <= 0 {
		settings.MaxRounds = r.cfg.MaxRounds
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity > 0 && uint(len(r.sessions)) >= r.capacity {
		return nil, ErrServerFull
	}

	var room *domain.Room
	for {
		var err error
		room, err = domain.NewRoom(settings, r.cfg.MaxPlayers)
		if err != nil {
			return nil, err
		}
		if _, taken := r.sessions[room.Code]; !taken {
			break
		}
		// Collision with a live room, re-roll.
	}

	session := NewSession(room, r.cfg, r.deps, r.removeRoom)
	r.sessions[room.Code] = session
	go session.Run()

	if r.deps.Metrics != nil {
		r.deps.Metrics.RoomsActive.Inc()
	}
	if r.deps.Publisher != nil {
		pub := r.deps.Publisher
		code := room.Code
		go func() {
			if err := pub.PublishRoomCreated(context.Background(), code, 0); err != nil && r.deps.Logger != nil {
				r.deps.Logger.Warn(logging.Game, logging.Rooms, "room created publish failed", map[logging.ExtraKey]any{
					logging.RoomCode:     code,
					logging.ErrorMessage: err.Error(),
				})
			}
		}()
	}

	return room, nil
}

func (r *Registry) Get(code string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	return s, ok
}

// Join resolves the room and adds the player on the session goroutine.
func (r *Registry) Join(code string, p *domain.Player) error {
	session, ok := r.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return session.Join(p)
}

// Leave is wired to socket disconnects. Unknown rooms and players are
// no-ops; the socket may outlive its roster entry after a kick.
func (r *Registry) Leave(code, playerID string) {
	if session, ok := r.Get(code); ok {
		session.Leave(playerID)
	}
}

// Dispatch routes a client frame to its room, dropping frames for rooms
// that no longer exist.
func (r *Registry) Dispatch(code, playerID string, msg *ws.ClientMessage) {
	if session, ok := r.Get(code); ok {
		session.Dispatch(playerID, msg)
	}
}

// SendState pushes a room snapshot to one player.
func (r *Registry) SendState(code, playerID string) {
	if session, ok := r.Get(code); ok {
		session.SendState(playerID)
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown disposes every live session.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.Shutdown()
	}
}

func (r *Registry) removeRoom(code string) {
	r.mu.Lock()
	delete(r.sessions, code)
	r.mu.Unlock()

	if r.deps.Metrics != nil {
		r.deps.Metrics.RoomsActive.Dec()
	}
	if r.deps.Logger != nil {
		r.deps.Logger.Info(logging.Game, logging.Rooms, "room disposed", map[logging.ExtraKey]any{
			logging.RoomCode: code,
		})
	}
}
