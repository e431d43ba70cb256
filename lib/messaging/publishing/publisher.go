package publishing

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes messages on a dedicated channel
type Publisher struct {
	channel *amqp.Channel
}

// NewPublisher wraps an AMQP channel
func NewPublisher(channel *amqp.Channel) *Publisher {
	return &Publisher{channel: channel}
}

// PublishJSONMessage publishes a JSON message to the specified queue
func (p *Publisher) PublishJSONMessage(ctx context.Context, queueName string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return p.channel.PublishWithContext(
		ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jsonBody,
			DeliveryMode: amqp.Persistent, // Make messages persistent
		},
	)
}
