package messaging

const (
	GameEventsQueue = "game_events"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
}

type RoundEventData struct {
	RoomCode    string `json:"roomCode"`
	RoundNumber int    `json:"roundNumber"`
	Word        string `json:"word"`
	StrokeCount int    `json:"strokeCount"`
}

type GameOverEventData struct {
	RoomCode string         `json:"roomCode"`
	Scores   map[string]int `json:"scores"`
}
