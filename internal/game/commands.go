package game

import "github.com/scrawlhq/scrawl/internal/domain"

// command is the closed set of messages a session accepts on its inbox.
// Every mutation of room state travels through one of these.
type command interface {
	isCommand()
}

type cmdJoin struct {
	Player *domain.Player
	Reply  chan error
}

type cmdLeave struct {
	PlayerID string
}

type cmdStartGame struct {
	RequesterID string
}

type cmdPauseGame struct {
	RequesterID string
}

type cmdChooseWord struct {
	RequesterID string
	Word        string
}

type cmdStroke struct {
	RequesterID string
	Stroke      domain.Stroke
}

type cmdUndo struct {
	RequesterID string
}

type cmdChat struct {
	RequesterID string
	Text        string
}

type cmdUpdateSettings struct {
	RequesterID string
	Update      SettingsUpdate
}

type cmdSetCustomWords struct {
	RequesterID string
	Text        string
}

type cmdKickPlayer struct {
	RequesterID string
	TargetID    string
}

type cmdRequestReplay struct {
	RequesterID string
}

type cmdRequestLastSavedRound struct {
	RequesterID string
}

type cmdGetLeaderboard struct {
	RequesterID string
}

// cmdWordDeadline fires when the drawer ran out of time to pick a word.
// Generation guards against a stale timer hitting a later round.
type cmdWordDeadline struct {
	Generation uint64
}

// cmdNextRound fires after the inter-round grace delay.
type cmdNextRound struct {
	Generation uint64
}

// cmdSendState pushes a fresh room snapshot to one player, used right
// after a join so the newcomer doesn't miss the pre-registration
// broadcast.
type cmdSendState struct {
	PlayerID string
}

type cmdShutdown struct{}

// SettingsUpdate carries the host's optional settings changes; nil and
// zero fields are left untouched.
type SettingsUpdate struct {
	RoundTime int    `json:"roundTime"`
	MaxRounds int    `json:"maxRounds"`
	Language  string `json:"language"`
	Category  string `json:"category"`
}

func (cmdJoin) isCommand()                  {}
func (cmdLeave) isCommand()                 {}
func (cmdStartGame) isCommand()             {}
func (cmdPauseGame) isCommand()             {}
func (cmdChooseWord) isCommand()            {}
func (cmdStroke) isCommand()                {}
func (cmdUndo) isCommand()                  {}
func (cmdChat) isCommand()                  {}
func (cmdUpdateSettings) isCommand()        {}
func (cmdSetCustomWords) isCommand()        {}
func (cmdKickPlayer) isCommand()            {}
func (cmdRequestReplay) isCommand()         {}
func (cmdRequestLastSavedRound) isCommand() {}
func (cmdGetLeaderboard) isCommand()        {}
func (cmdSendState) isCommand()             {}
func (cmdWordDeadline) isCommand()          {}
func (cmdNextRound) isCommand()             {}
func (cmdShutdown) isCommand()              {}
