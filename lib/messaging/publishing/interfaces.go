package publishing

import "context"

// MessagePublisher interface for sending messages
type MessagePublisher interface {
	PublishJSONMessage(ctx context.Context, queueName string, body any) error
}
