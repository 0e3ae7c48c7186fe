package domain

import (
	"strings"
	"time"

	"github.com/scrawlhq/scrawl/internal/infrastructure/validate"
)

const maxNameLength = 24

// Player identity is tied to the connection; a reconnect is a new player.
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	HasGuessed bool      `json:"hasGuessed"`
	Joined     time.Time `json:"joined"`
}

func NewPlayer(id, rawName string) (*Player, error) {
	validateName := validate.Compose(
		validate.Required(),
		validate.MinLength(1),
		validate.MaxLength(maxNameLength),
	)

	name := strings.TrimSpace(rawName)
	if err := validateName(name); err != nil {
		return nil, err
	}

	return &Player{
		ID:     id,
		Name:   name,
		Joined: time.Now(),
	}, nil
}
