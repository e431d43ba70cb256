package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"profileupdater/lib/env"
	"profileupdater/lib/messaging/processing"
	qw "profileupdater/lib/messaging/queue-workers"
	"profileupdater/lib/messaging/rabbit"
	"profileupdater/lib/monitoring"
	"profileupdater/lib/services/atcoder"
	"profileupdater/lib/services/audit"
	"profileupdater/lib/services/profile"
	"profileupdater/lib/utils/logging"
	"profileupdater/lib/web/twitter"
)

func main() {
	logger := logging.NewLogger("UPDATER")
	flushSentry, recoverSentry := logger.InitSentry()
	defer flushSentry()
	defer recoverSentry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rabbit.Wait()
	monitoring.ServeMetrics(env.UpdaterMetricsPort)

	updater := &profile.Updater{
		Provider: atcoder.NewScraper(env.AtCoderBaseURL, env.ChromePath),
		Twitter:  twitter.NewClient(env.TwitterAPIKey, env.TwitterAPISecretKey),
		Logger:   logging.NewLogger("PROFILE"),
	}
	if sink := audit.NewLog(); sink != nil {
		updater.Audit = sink
	}

	tm, err := processing.StartTopicManager(qw.ProfileUpdateTopic(updater), processing.TopicManagerConfig{
		Context: ctx,
		Conn:    rabbit.Conn,
	})
	if err != nil {
		logger.Fatal("TOPIC_START_FAILED", err, nil)
	}

	logger.Info("UPDATER_STARTED", map[string]any{
		logging.QUEUE:        qw.ProfileUpdateTopicConfig().QueueName,
		logging.WORKER_COUNT: tm.ActiveWorkers(),
	})

	// Block until shutdown; in-flight jobs observe the cancelled context
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	logger.Info("UPDATER_STOPPED", nil)
}
