package processing

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"profileupdater/lib/utils/logging"
)

// TopicManager manages a single topic with self-scaling worker goroutines
type TopicManager struct {
	topic  Topic
	config TopicConfig

	// All fields are private to encapsulate the manager's internal state
	conn          *amqp.Connection
	activeWorkers int
	workers       map[int]context.CancelFunc
	mutex         sync.RWMutex
	ctx           context.Context
	logger        logging.Logger
}

// TopicManagerConfig contains configuration and resources for a TopicManager
type TopicManagerConfig struct {
	Context context.Context  // Go context for cancellation and timeouts
	Conn    *amqp.Connection // Established broker connection
}

// ActiveWorkers returns the current worker count for this topic
func (tm *TopicManager) ActiveWorkers() int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return tm.activeWorkers
}

// StartTopicManager starts a TopicManager with self-scaling worker goroutines
func StartTopicManager(topic Topic, managerConfig TopicManagerConfig) (*TopicManager, error) {
	// Get the topic config directly from the topic
	topicConfig := topic.Config

	// Set default scaling configuration if not specified
	if topicConfig.ScaleUpThreshold == 0 {
		topicConfig.ScaleUpThreshold = 100 // Scale up when queue has 100+ messages
	}
	if topicConfig.ScaleDownThreshold == 0 {
		topicConfig.ScaleDownThreshold = 10 // Scale down when queue has <10 messages
	}
	if topicConfig.ScaleUpPercent == 0 {
		topicConfig.ScaleUpPercent = 0.2 // Add 20% more workers
	}
	if topicConfig.ScaleDownPercent == 0 {
		topicConfig.ScaleDownPercent = 0.1 // Remove 10% of workers
	}
	if topicConfig.ScaleCheckInterval == 0 {
		topicConfig.ScaleCheckInterval = 5 * time.Minute
	}

	topicManager := &TopicManager{
		topic:         topic,
		activeWorkers: 0,
		workers:       make(map[int]context.CancelFunc),
		config:        topicConfig,
		conn:          managerConfig.Conn,
		ctx:           managerConfig.Context,
		logger:        logging.NewLogger(topicConfig.QueueName),
	}

	// Start with the desired worker count
	err := topicManager.scaleTo(topicConfig.DesiredWorkers)
	if err != nil {
		return nil, err
	}

	// Start self-scaling monitor
	go topicManager.monitorSelfScaling()

	return topicManager, nil
}

// DeclareTopicQueues declares the work queue and its dead-letter queue.
// The work queue is a quorum queue with a delivery limit: a message nacked
// with requeue more times than the limit is diverted to the dead-letter
// queue by the broker itself, which is what bounds the retry budget.
func DeclareTopicQueues(ch *amqp.Channel, config TopicConfig) error {
	if config.DeadLetterQueueName != "" {
		_, err := ch.QueueDeclare(
			config.DeadLetterQueueName,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare dead-letter queue: %w", err)
		}
	}

	args := amqp.Table{}
	if config.DeadLetterQueueName != "" {
		args["x-queue-type"] = "quorum"
		args["x-delivery-limit"] = int32(config.MaxDeliveries)
		args["x-dead-letter-exchange"] = ""
		args["x-dead-letter-routing-key"] = config.DeadLetterQueueName
	}

	_, err := ch.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		args,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// scaleTo scales to the target number of workers
func (tm *TopicManager) scaleTo(targetWorkers int) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	// Ensure we stay within min/max bounds
	if targetWorkers < tm.config.MinWorkers {
		targetWorkers = tm.config.MinWorkers
	}
	if targetWorkers > tm.config.MaxWorkers {
		targetWorkers = tm.config.MaxWorkers
	}

	currentWorkers := tm.activeWorkers

	if targetWorkers > currentWorkers {
		// Scale up - add workers
		for i := currentWorkers; i < targetWorkers; i++ {
			cancelFunc, err := tm.startWorkerGoroutine(i)
			if err != nil {
				tm.logger.Error("WORKER_START_FAILED", err, map[string]any{
					"worker_id": i,
				})
				continue
			}
			tm.workers[i] = cancelFunc
			tm.activeWorkers++
		}
	} else if targetWorkers < currentWorkers {
		// Scale down - remove workers
		for i := currentWorkers - 1; i >= targetWorkers; i-- {
			if cancelFunc, exists := tm.workers[i]; exists {
				cancelFunc() // Cancel the context
				delete(tm.workers, i)
				tm.activeWorkers--
			}
		}
	}

	if tm.activeWorkers != currentWorkers {
		tm.logger.Info("WORKERS_SCALED", map[string]any{
			"from": currentWorkers,
			"to":   tm.activeWorkers,
		})
	}
	workerCount.WithLabelValues(tm.config.QueueName).Set(float64(tm.activeWorkers))

	return nil
}

// startWorkerGoroutine starts a single worker goroutine and returns the cancel function
func (tm *TopicManager) startWorkerGoroutine(workerID int) (context.CancelFunc, error) {
	ch, err := tm.conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := DeclareTopicQueues(ch, tm.config); err != nil {
		ch.Close()
		return nil, err
	}

	// Set QoS if needed
	if tm.config.KeepInReady {
		prefetch := max(1, tm.config.PrefetchCount)
		err = ch.Qos(prefetch, 0, false)
		if err != nil {
			ch.Close()
			return nil, err
		}
	}

	msgs, err := ch.Consume(
		tm.config.QueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	// Create a cancellable context for this worker
	workerCtx, cancelFunc := context.WithCancel(tm.ctx)

	prefix := fmt.Sprintf("%s::%d", tm.config.QueueName, workerID)
	worker := &Worker{
		ID:        workerID,
		QueueName: tm.config.QueueName,
		logger:    logging.NewLogger(prefix),
		ctx:       workerCtx,
		channel:   msgs,
		processor: tm.topic.processor,
	}

	// Run the worker loop - close channel when worker exits
	go func() {
		defer ch.Close()
		worker.Run()
	}()

	return cancelFunc, nil
}

// monitorSelfScaling monitors queue depth and scales workers periodically
func (tm *TopicManager) monitorSelfScaling() {
	ticker := time.NewTicker(tm.config.ScaleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
		}

		depth, err := tm.getQueueDepth()
		if err != nil {
			tm.logger.Error("QUEUE_DEPTH_CHECK_FAILED", err, nil)
			continue
		}
		queueDepth.WithLabelValues(tm.config.QueueName).Set(float64(depth))

		tm.mutex.RLock()
		currentWorkers := tm.activeWorkers
		tm.mutex.RUnlock()

		var targetWorkers int

		if depth > tm.config.ScaleUpThreshold && currentWorkers < tm.config.MaxWorkers {
			// Scale up by percentage
			workersToAdd := max(1, int(float64(currentWorkers)*tm.config.ScaleUpPercent))
			targetWorkers = currentWorkers + workersToAdd
		} else if depth < tm.config.ScaleDownThreshold && currentWorkers > tm.config.MinWorkers {
			// Scale down by percentage
			workersToRemove := max(1, int(float64(currentWorkers)*tm.config.ScaleDownPercent))
			targetWorkers = currentWorkers - workersToRemove
		} else {
			// No scaling needed
			continue
		}

		tm.logger.Info("SCALING_WORKERS", map[string]any{
			logging.QUEUE_DEPTH: depth,
			"from":              currentWorkers,
			"to":                targetWorkers,
		})
		tm.scaleTo(targetWorkers)
	}
}

// getQueueDepth gets the current queue depth
func (tm *TopicManager) getQueueDepth() (int, error) {
	ch, err := tm.conn.Channel()
	if err != nil {
		return 0, err
	}
	defer ch.Close()

	q, err := ch.QueueDeclarePassive(
		tm.config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return 0, err
	}

	return q.Messages, nil
}
