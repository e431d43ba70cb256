package publishing

import (
	"profileupdater/lib/messaging/rabbit"
	"profileupdater/lib/utils/singleton"
)

var (
	// Default is the shared publisher for the process
	Default  *Publisher
	initDone <-chan struct{}
)

func init() {
	initDone = singleton.InitAsync("RABBITMQ_PUBLISHER", 3, func() error {
		// Wait for RabbitMQ connection to be ready before creating publisher channel
		rabbit.Wait()

		ch, err := rabbit.Conn.Channel()
		if err != nil {
			return err
		}
		Default = NewPublisher(ch)
		return nil
	})
}

// Wait blocks until publishing initialization is complete
func Wait() {
	<-initDone
}
