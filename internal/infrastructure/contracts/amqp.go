package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomCode string `json:"roomCode"`
	Data     []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated  = "room.created"
	EventRoomDisposed = "room.disposed"
	EventPlayerJoined = "player.joined"
	EventPlayerLeft   = "player.left"
	EventPlayerKicked = "player.kicked"
	EventRoundEnded   = "round.ended"
	EventGameOver     = "game.over"
)
