package events

import (
	"context"
	"encoding/json"

	"github.com/scrawlhq/scrawl/internal/infrastructure/contracts"
	"github.com/scrawlhq/scrawl/internal/infrastructure/messaging"
)

// GamePublisher pushes gameplay lifecycle events onto the broker for
// downstream consumers (analytics, audit). Callers treat every publish
// as best-effort.
type GamePublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewGamePublisher(rabbitmq *messaging.RabbitMQ) *GamePublisher {
	return &GamePublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *GamePublisher) PublishRoomCreated(ctx context.Context, roomCode string, playerCount int) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomCreated, roomCode, playerCount)
}

func (p *GamePublisher) PublishRoomDisposed(ctx context.Context, roomCode string) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomDisposed, roomCode, 0)
}

func (p *GamePublisher) PublishPlayerJoined(ctx context.Context, roomCode string, playerCount int) error {
	return p.publishRoomEvent(ctx, contracts.EventPlayerJoined, roomCode, playerCount)
}

func (p *GamePublisher) PublishPlayerLeft(ctx context.Context, roomCode string, playerCount int) error {
	return p.publishRoomEvent(ctx, contracts.EventPlayerLeft, roomCode, playerCount)
}

func (p *GamePublisher) PublishPlayerKicked(ctx context.Context, roomCode string, playerCount int) error {
	return p.publishRoomEvent(ctx, contracts.EventPlayerKicked, roomCode, playerCount)
}

func (p *GamePublisher) PublishRoundEnded(ctx context.Context, roomCode string, roundNumber int, word string, strokeCount int) error {
	payload := messaging.RoundEventData{
		RoomCode:    roomCode,
		RoundNumber: roundNumber,
		Word:        word,
		StrokeCount: strokeCount,
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventRoundEnded, contracts.AmqpMessage{
		RoomCode: roomCode,
		Data:     eventJSON,
	})
}

func (p *GamePublisher) PublishGameOver(ctx context.Context, roomCode string, scores map[string]int) error {
	payload := messaging.GameOverEventData{
		RoomCode: roomCode,
		Scores:   scores,
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventGameOver, contracts.AmqpMessage{
		RoomCode: roomCode,
		Data:     eventJSON,
	})
}

func (p *GamePublisher) publishRoomEvent(ctx context.Context, routingKey, roomCode string, playerCount int) error {
	payload := messaging.RoomEventData{
		RoomCode:    roomCode,
		PlayerCount: playerCount,
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomCode: roomCode,
		Data:     eventJSON,
	})
}
