package rooms

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/game"
	"github.com/scrawlhq/scrawl/internal/infrastructure/json"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
	"github.com/scrawlhq/scrawl/internal/infrastructure/validate"
	"github.com/scrawlhq/scrawl/internal/infrastructure/ws"
)

type Handler struct {
	registry *game.Registry
	hub      *ws.Hub
	logger   logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(registry *game.Registry, hub *ws.Hub, logger logging.Logger) *Handler {
	return &Handler{
		registry: registry,
		hub:      hub,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(w, r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	validateName := validate.Field("name",
		validate.Required(),
		validate.MaxLength(24),
	)
	if err := validateName(strings.TrimSpace(req.Name)); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if req.Language != "" && !domain.KnownLanguage(req.Language) {
		json.WriteError(w, http.StatusBadRequest, "unknown language")
		return
	}
	if req.Category != "" && req.Language != "" && !domain.KnownCategory(req.Language, req.Category) {
		json.WriteError(w, http.StatusBadRequest, "unknown category")
		return
	}

	settings := domain.Settings{
		RoundTime:   time.Duration(req.RoundTime) * time.Second,
		MaxRounds:   req.MaxRounds,
		Language:    req.Language,
		Category:    req.Category,
		CustomWords: domain.ParseCustomWords(req.CustomWords),
	}

	room, err := h.registry.CreateRoom(settings)
	if err != nil {
		if errors.Is(err, game.ErrServerFull) {
			json.WriteError(w, http.StatusServiceUnavailable, "room capacity reached")
			return
		}
		h.logger.Error(logging.Game, logging.Rooms, "room creation failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}

	_ = json.Write(w, http.StatusCreated, createRoomResponse{OK: true, Room: room.Code})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	if _, ok := h.registry.Get(code); !ok {
		json.WriteNotFound(w, "Room not found")
		return
	}

	_ = json.Write(w, http.StatusOK, roomLookupResponse{OK: true, Room: code})
}

// JoinRoomHandler upgrades the connection and adds the player to the
// room. Roster errors arrive as a typed error frame before the socket
// closes, so clients get one ack either way.
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	name := r.URL.Query().Get("name")

	player, err := domain.NewPlayer(uuid.NewString(), name)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if _, ok := h.registry.Get(code); !ok {
		json.WriteNotFound(w, "Room not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.ExternalService, "upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, h.logger, player.ID, code, player.Name)

	if err := h.registry.Join(code, player); err != nil {
		_ = client.WriteDirect(ws.NewError(code, joinErrorCode(err), err.Error()))
		_ = client.Close()
		return
	}

	h.hub.Register() <- client
	go client.WriteMessage()
	go client.ReadMessage(h.hub, h.registry.Dispatch)

	// The join broadcast went out before registration; catch the
	// newcomer up with a direct snapshot.
	h.registry.SendState(code, player.ID)
}

func joinErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, domain.ErrNameTaken):
		return "NAME_TAKEN"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return "ALREADY_JOINED"
	case errors.Is(err, domain.ErrRoomFull):
		return "ROOM_FULL"
	default:
		return "JOIN_FAILED"
	}
}
