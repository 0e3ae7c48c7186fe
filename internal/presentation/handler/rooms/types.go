package rooms

// createRoomRequest carries the room settings chosen by the creator.
// Every field except name is optional; server defaults fill the gaps.
type createRoomRequest struct {
	Name        string `json:"name"`
	RoundTime   int    `json:"roundTime"`
	MaxRounds   int    `json:"maxRounds"`
	Language    string `json:"language"`
	Category    string `json:"category"`
	CustomWords string `json:"customWords"`
}

type createRoomResponse struct {
	OK   bool   `json:"ok"`
	Room string `json:"room"`
}

type roomLookupResponse struct {
	OK   bool   `json:"ok"`
	Room string `json:"room"`
}
