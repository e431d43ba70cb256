package processing

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"profileupdater/lib/utils/logging"
)

// Worker represents a message processing worker with structured logging
type Worker struct {
	// Public fields (accessed by processors)
	ID        int
	QueueName string

	// Private fields (internal worker state)
	ctx       context.Context
	logger    logging.Logger
	channel   <-chan amqp.Delivery
	processor ProcessorFunc
}

// ProcessorFunc defines the function signature for processing messages
type ProcessorFunc func(worker *Worker, message amqp.Delivery) error

// Context returns the worker's cancellation context
func (w *Worker) Context() context.Context {
	return w.ctx
}

// Run starts the worker loop and processes messages until the context is cancelled
func (w *Worker) Run() {
	for {
		select {
		case msg, ok := <-w.channel:
			if !ok {
				return
			}

			err := w.processor(w, msg)
			if err != nil {
				if IsPermanent(err) {
					// Requeue=false diverts the message to the dead-letter
					// queue immediately; redelivery cannot fix this failure
					w.Error("PERMANENT_MESSAGE_FAILURE", err, nil)
					if err := msg.Nack(false, false); err != nil {
						panic(err)
					}
				} else {
					// Requeue=true lets the broker redeliver; after the
					// queue's delivery limit the message is dead-lettered
					w.Warn("TRANSIENT_MESSAGE_FAILURE", err, nil)
					if err := msg.Nack(false, true); err != nil {
						panic(err)
					}
				}
				continue
			}

			// Ack successful processing
			if err := msg.Ack(false); err != nil {
				w.Error("MESSAGE_ACK_FAILED", err, nil)
			}

		case <-w.ctx.Done():
			w.Debug("WORKER_STOPPING", nil)
			return
		}
	}
}

func (w *Worker) Debug(key string, fields map[string]any) {
	w.logger.Debug(key, fields)
}

func (w *Worker) Info(key string, fields map[string]any) {
	w.logger.Info(key, fields)
}

func (w *Worker) Warn(key string, err error, fields map[string]any) {
	w.logger.Warn(key, err, fields)
}

func (w *Worker) Error(key string, err error, fields map[string]any) {
	w.logger.Error(key, err, fields)
}
