package queueworkers

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/messaging/processing"
	"profileupdater/lib/messaging/routing"
	"profileupdater/lib/services/profile"
	"profileupdater/lib/utils/logging"
)

// ProfileUpdateTopicConfig is shared between the worker (consume) and the
// dispatcher/registry (declare before publish) so every process agrees on
// the queue arguments.
func ProfileUpdateTopicConfig() processing.TopicConfig {
	return processing.TopicConfig{
		QueueName:           routing.ProfileUpdate,
		DeadLetterQueueName: routing.ProfileUpdateDead,
		MaxDeliveries:       routing.MaxDeliveries,
		MinWorkers:          1,
		MaxWorkers:          5,
		DesiredWorkers:      2,
		KeepInReady:         true,
		PrefetchCount:       1,
		ScaleUpThreshold:    20,
		ScaleDownThreshold:  5,
	}
}

// ProfileUpdateTopic creates the profile update topic. MaxWorkers bounds the
// number of simultaneous headless-browser sessions, which is what keeps the
// scrape target's rate limit honest under load.
func ProfileUpdateTopic(updater *profile.Updater) processing.Topic {
	return processing.NewTopic(ProfileUpdateTopicConfig(), func(worker *processing.Worker, message amqp.Delivery) error {
		return processProfileUpdate(updater, worker, message)
	})
}

// processProfileUpdate handles one profile update message
func processProfileUpdate(updater *profile.Updater, worker *processing.Worker, message amqp.Delivery) error {
	request, err := processing.ParseJSON[messages.ProfileUpdateMessage](message.Body)
	if err != nil {
		return err
	}

	err = updater.Update(worker.Context(), request)
	if err != nil {
		worker.Error("PROFILE_UPDATE_ERROR", err, map[string]any{
			logging.TWITTER_ID: request.TwitterID,
			logging.ATCODER_ID: request.AtCoderID,
		})
		return err
	}

	worker.Debug("PROFILE_UPDATE_COMPLETE", map[string]any{
		logging.TWITTER_ID: request.TwitterID,
		logging.ATCODER_ID: request.AtCoderID,
		logging.STATUS:     "success",
	})
	return nil
}
