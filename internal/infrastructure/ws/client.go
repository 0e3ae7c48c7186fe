package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
)

type Client struct {
	conn    *connWrapper
	logger  logging.Logger
	Message chan *WSMessage

	ID       string `json:"id"`
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

func NewClient(conn *websocket.Conn, logger logging.Logger, id, roomCode, name string) *Client {
	return &Client{
		conn:     newConnWrapper(conn),
		logger:   logger,
		Message:  make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:       id,
		RoomCode: roomCode,
		Name:     name,
	}
}

// ReadMessage pumps inbound frames into handle until the socket closes.
// Malformed envelopes are dropped, not fatal to the connection.
func (c *Client) ReadMessage(hub *Hub, handle func(roomCode, playerID string, msg *ClientMessage)) {
	defer func() {
		hub.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn(logging.WebSocket, logging.ExternalService, "ws read error", map[logging.ExtraKey]any{
					logging.PlayerID:     c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug(logging.WebSocket, logging.ExternalService, "dropping malformed frame", map[logging.ExtraKey]any{
				logging.PlayerID: c.ID,
			})
			continue
		}

		handle(c.RoomCode, c.ID, &msg)
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if msg == nil {
			// Close sentinel from the hub: everything queued before it
			// has been written.
			break
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn(logging.WebSocket, logging.ExternalService, "ws write error", map[logging.ExtraKey]any{
				logging.PlayerID:     c.ID,
				logging.ErrorMessage: err.Error(),
			})
			break
		}
	}
}

// WriteDirect sends one frame outside the pump, used for join errors
// before the client is registered.
func (c *Client) WriteDirect(msg *WSMessage) error {
	return c.conn.WriteJSON(msg)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
