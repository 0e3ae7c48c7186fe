package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/scrawlhq/scrawl/internal/infrastructure/contracts"
)

const (
	GameExchange       = "game"
	DeadLetterExchange = "dlx"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

func NewRabbitMQ(uri string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %v", err)
	}

	rmq := &RabbitMQ{
		conn:    conn,
		Channel: ch,
	}

	if err := rmq.setupTopology(); err != nil {
		rmq.Close()
		return nil, err
	}

	return rmq, nil
}

func (r *RabbitMQ) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
	if r.Channel != nil {
		r.Channel.Close()
	}
}

func (r *RabbitMQ) setupTopology() error {
	if err := r.Channel.ExchangeDeclare(
		GameExchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %v", err)
	}

	if err := r.Channel.ExchangeDeclare(
		DeadLetterExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %v", err)
	}

	if _, err := r.Channel.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %v", err)
	}
	if err := r.Channel.QueueBind(DeadLetterQueue, "", DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue: %v", err)
	}

	return r.declareAndBindQueue(GameEventsQueue, []string{
		contracts.EventRoomCreated,
		contracts.EventRoomDisposed,
		contracts.EventPlayerJoined,
		contracts.EventPlayerLeft,
		contracts.EventPlayerKicked,
		contracts.EventRoundEnded,
		contracts.EventGameOver,
	}, GameExchange)
}

func (r *RabbitMQ) PublishMessage(ctx context.Context, routingKey string, msg contracts.AmqpMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	return r.Channel.PublishWithContext(ctx,
		GameExchange, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (r *RabbitMQ) ConsumeMessages(queueName string, handler func(ctx context.Context, msg amqp.Delivery) error) error {
	deliveries, err := r.Channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %v", queueName, err)
	}

	go func() {
		for d := range deliveries {
			if err := handler(context.Background(), d); err != nil {
				// Rejected messages land on the dead letter exchange
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	return nil
}

func (r *RabbitMQ) declareAndBindQueue(queueName string, messageTypes []string, exchange string) error {
	// Add dead letter configuration
	args := amqp.Table{
		"x-dead-letter-exchange": DeadLetterExchange,
	}

	q, err := r.Channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		args,      // arguments with DLX config
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, msg := range messageTypes {
		if err := r.Channel.QueueBind(
			q.Name,   // queue name
			msg,      // routing key
			exchange, // exchange
			false,
			nil,
		); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %v", queueName, err)
		}
	}

	return nil
}
