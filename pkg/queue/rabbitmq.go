package queue

import (
	"encoding/json"
	"fmt"

	"contest-arena/pkg/config"
	"contest-arena/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ContestEventQueueName = "contest_events"
	ContestEventExchange  = "contests"
)

// Routing keys for contest lifecycle events.
const (
	EventContestCreated  = "contest.created"
	EventContestCanceled = "contest.canceled"
	EventContestSettled  = "contest.settled"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange for contest lifecycle events
	err = channel.ExchangeDeclare(
		ContestEventExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Durable queue consumed by the downstream notification service
	_, err = channel.QueueDeclare(
		ContestEventQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, routingKey := range []string{EventContestCreated, EventContestCanceled, EventContestSettled} {
		if err := channel.QueueBind(
			ContestEventQueueName,
			routingKey,
			ContestEventExchange,
			false,
			nil,
		); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

// PublishContestEvent publishes a contest lifecycle event. Publishing is
// best-effort; callers fire it from goroutines and only log failures.
func (c *Client) PublishContestEvent(routingKey string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = c.channel.Publish(
		ContestEventExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Info("[EVENT QUEUE] Published %s event", routingKey)
	return nil
}

func (c *Client) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
