package ws

import "encoding/json"

// WSMessage is the server→client envelope.
type WSMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ClientMessage is the client→server envelope. Data stays raw until the
// handler for the given type decodes it.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client→server command types.
const (
	CmdStartGame             = "startGame"
	CmdPauseGame             = "pauseGame"
	CmdChooseWord            = "chooseWord"
	CmdStroke                = "stroke"
	CmdUndo                  = "undo"
	CmdChat                  = "chat"
	CmdUpdateSettings        = "updateSettings"
	CmdSetCustomWords        = "setCustomWords"
	CmdKickPlayer            = "kickPlayer"
	CmdRequestReplay         = "requestReplay"
	CmdRequestLastSavedRound = "requestLastSavedRound"
	CmdGetLeaderboard        = "getLeaderboard"
)
