package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"profileupdater/lib/utils/logging"
)

type fakeAcknowledger struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

// runOne feeds a single delivery through a worker and waits for the loop
// to drain
func runOne(t *testing.T, processor ProcessorFunc) *fakeAcknowledger {
	t.Helper()

	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{}`)}
	close(deliveries)

	w := &Worker{
		ID:        1,
		QueueName: "test_queue",
		ctx:       context.Background(),
		logger:    logging.NewLogger("TEST"),
		channel:   deliveries,
		processor: processor,
	}

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not drain the channel")
	}
	return ack
}

func TestWorker_AcksOnSuccess(t *testing.T) {
	ack := runOne(t, func(worker *Worker, message amqp.Delivery) error {
		return nil
	})
	if !ack.acked {
		t.Error("expected successful message to be acked")
	}
	if ack.nacked {
		t.Error("successful message must not be nacked")
	}
}

func TestWorker_TransientFailureRequeues(t *testing.T) {
	ack := runOne(t, func(worker *Worker, message amqp.Delivery) error {
		return errors.New("connection reset")
	})
	if !ack.nacked || !ack.requeued {
		t.Error("transient failure must nack with requeue for broker redelivery")
	}
}

func TestWorker_PermanentFailureDeadLetters(t *testing.T) {
	ack := runOne(t, func(worker *Worker, message amqp.Delivery) error {
		return Permanent(errors.New("malformed payload"))
	})
	if !ack.nacked {
		t.Error("permanent failure must be nacked")
	}
	if ack.requeued {
		t.Error("permanent failure must not requeue; it goes straight to the dead-letter queue")
	}
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ID:        1,
		QueueName: "test_queue",
		ctx:       ctx,
		logger:    logging.NewLogger("TEST"),
		channel:   make(chan amqp.Delivery),
		processor: func(worker *Worker, message amqp.Delivery) error { return nil },
	}

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
