package ws

import (
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
)

type outbound struct {
	roomCode  string
	playerID  string // targeted send when set
	exceptID  string // skipped on room broadcast when set
	closeConn bool   // close the target after queued frames drain
	msg       *WSMessage
}

// Hub owns every live socket, grouped by room code. It moves frames only;
// game state lives with the room sessions.
type Hub struct {
	logger logging.Logger

	register   chan *Client
	unregister chan *Client
	outgoing   chan outbound

	rooms   map[string]map[string]*Client
	clients map[string]*Client

	// OnDisconnect is invoked off the hub goroutine after a client is
	// removed. Set before Run.
	OnDisconnect func(roomCode, playerID string)
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outgoing:   make(chan outbound, 256),
		rooms:      make(map[string]map[string]*Client),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case cl := <-h.register:
			h.addClient(cl)

		case cl := <-h.unregister:
			h.removeClient(cl)

		case out := <-h.outgoing:
			h.deliver(out)
		}
	}
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Unregister() chan<- *Client {
	return h.unregister
}

// BroadcastToRoom fans a message out to every member of a room.
func (h *Hub) BroadcastToRoom(roomCode string, msg *WSMessage) {
	h.outgoing <- outbound{roomCode: roomCode, msg: msg}
}

// BroadcastToRoomExcept skips one member, typically the sender.
func (h *Hub) BroadcastToRoomExcept(roomCode, exceptID string, msg *WSMessage) {
	h.outgoing <- outbound{roomCode: roomCode, exceptID: exceptID, msg: msg}
}

// SendToPlayer delivers to a single client regardless of room.
func (h *Hub) SendToPlayer(playerID string, msg *WSMessage) {
	h.outgoing <- outbound{playerID: playerID, msg: msg}
}

// ClosePlayer closes a client's socket after frames queued before it have
// been written, so a kicked player still sees the kicked notice.
func (h *Hub) ClosePlayer(playerID string) {
	h.outgoing <- outbound{playerID: playerID, closeConn: true}
}

func (h *Hub) addClient(cl *Client) {
	room, ok := h.rooms[cl.RoomCode]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[cl.RoomCode] = room
	}
	room[cl.ID] = cl
	h.clients[cl.ID] = cl
}

func (h *Hub) removeClient(cl *Client) {
	room, ok := h.rooms[cl.RoomCode]
	if !ok {
		return
	}
	if _, ok := room[cl.ID]; !ok {
		return
	}

	delete(room, cl.ID)
	delete(h.clients, cl.ID)
	close(cl.Message)
	if len(room) == 0 {
		delete(h.rooms, cl.RoomCode)
	}

	if h.OnDisconnect != nil {
		// Off the hub goroutine so a busy session can't stall delivery.
		go h.OnDisconnect(cl.RoomCode, cl.ID)
	}
}

func (h *Hub) deliver(out outbound) {
	if out.playerID != "" {
		cl, ok := h.clients[out.playerID]
		if !ok {
			return
		}
		if out.closeConn {
			h.closeClient(cl)
			return
		}
		h.send(cl, out.msg)
		return
	}

	room, ok := h.rooms[out.roomCode]
	if !ok {
		return
	}
	for _, cl := range room {
		if out.exceptID != "" && cl.ID == out.exceptID {
			continue
		}
		h.send(cl, out.msg)
	}
}

// closeClient hands the write pump a nil sentinel so it closes the socket
// only after draining its queue. A full queue means the client is already
// stalled; cut the socket directly.
func (h *Hub) closeClient(cl *Client) {
	select {
	case cl.Message <- nil:
	default:
		_ = cl.conn.Close()
	}
}

func (h *Hub) send(cl *Client, msg *WSMessage) {
	select {
	case cl.Message <- msg:
	default:
		// Client is too slow – drop the message
		h.logger.Warn(logging.WebSocket, logging.ExternalService, "client buffer full, dropping message", map[logging.ExtraKey]any{
			logging.PlayerID: cl.ID,
			logging.RoomCode: cl.RoomCode,
		})
	}
}
