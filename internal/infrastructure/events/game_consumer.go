package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"github.com/scrawlhq/scrawl/internal/infrastructure/contracts"
	"github.com/scrawlhq/scrawl/internal/infrastructure/logging"
	"github.com/scrawlhq/scrawl/internal/infrastructure/messaging"
)

// gameConsumer drains the game events queue and writes each event to the
// structured log, giving operators an audit trail of room lifecycles.
type gameConsumer struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewGameConsumer(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *gameConsumer {
	return &gameConsumer{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (c *gameConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.GameEventsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			c.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to unmarshal message", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		c.logger.Info(logging.RabbitMQ, logging.ExternalService, "game event received", map[logging.ExtraKey]any{
			logging.RoomCode: message.RoomCode,
			"RoutingKey":     msg.RoutingKey,
		})

		return nil
	})
}
