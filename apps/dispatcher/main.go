package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"profileupdater/lib/database/postgres"
	"profileupdater/lib/env"
	"profileupdater/lib/messaging/processing"
	"profileupdater/lib/messaging/publishing"
	qw "profileupdater/lib/messaging/queue-workers"
	"profileupdater/lib/messaging/rabbit"
	"profileupdater/lib/monitoring"
	"profileupdater/lib/services/dispatch"
	"profileupdater/lib/services/registration"
	"profileupdater/lib/utils/logging"
)

// defaultSchedule matches the original weekly cadence: Monday 16:00 UTC
const defaultSchedule = "0 16 * * 1"

var logger = logging.NewLogger("DISPATCHER")

func main() {
	runNow := flag.Bool("now", false, "run one dispatch immediately and exit")
	flag.Parse()

	flushSentry, recoverSentry := logger.InitSentry()
	defer flushSentry()
	defer recoverSentry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgres.Wait()
	rabbit.Wait()
	publishing.Wait()

	// The dispatcher may run before any worker has ever consumed, so it
	// declares the queues itself; publishing into a void would silently
	// drop every job.
	ch, err := rabbit.Conn.Channel()
	if err != nil {
		logger.Fatal("CHANNEL_OPEN_FAILED", err, nil)
	}
	if err := processing.DeclareTopicQueues(ch, qw.ProfileUpdateTopicConfig()); err != nil {
		logger.Fatal("QUEUE_DECLARE_FAILED", err, nil)
	}
	ch.Close()

	dispatcher := &dispatch.Dispatcher{
		Store:     registration.NewStore(postgres.DB),
		Publisher: publishing.Default,
		Logger:    logger,
	}

	if *runNow {
		if err := dispatcher.Run(ctx); err != nil {
			logger.Fatal("DISPATCH_FAILED", err, nil)
		}
		return
	}

	monitoring.ServeMetrics(env.DispatcherMetricsPort)

	scheduler := newScheduler(ctx, dispatcher)
	scheduler.start(loadSchedule())
	defer scheduler.stop()

	if env.ScheduleFile != "" {
		if err := watchScheduleFile(env.ScheduleFile, scheduler); err != nil {
			logger.Warn("SCHEDULE_WATCH_FAILED", err, map[string]any{
				logging.PATH: env.ScheduleFile,
			})
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
}

// loadSchedule reads the cron expression from the schedule file, falling
// back to the weekly default when unset or unreadable
func loadSchedule() string {
	if env.ScheduleFile == "" {
		return defaultSchedule
	}
	content, err := os.ReadFile(env.ScheduleFile)
	if err != nil {
		logger.Warn("SCHEDULE_FILE_READ_FAILED", err, map[string]any{
			logging.PATH: env.ScheduleFile,
		})
		return defaultSchedule
	}
	expr := strings.TrimSpace(string(content))
	if expr == "" {
		return defaultSchedule
	}
	return expr
}

type scheduler struct {
	ctx        context.Context
	dispatcher *dispatch.Dispatcher
	cron       *cron.Cron
}

func newScheduler(ctx context.Context, dispatcher *dispatch.Dispatcher) *scheduler {
	return &scheduler{ctx: ctx, dispatcher: dispatcher}
}

func (s *scheduler) start(expr string) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		if err := s.dispatcher.Run(s.ctx); err != nil {
			logger.Error("DISPATCH_FAILED", err, nil)
		}
	})
	if err != nil {
		logger.Error("INVALID_SCHEDULE", err, map[string]any{
			logging.VALUE: expr,
		})
		return
	}
	c.Start()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = c

	logger.Info("SCHEDULE_ACTIVE", map[string]any{
		logging.VALUE: expr,
	})
}

func (s *scheduler) stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// watchScheduleFile reloads the cron schedule when the file changes
func watchScheduleFile(path string, s *scheduler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					logger.Info("SCHEDULE_FILE_CHANGED", map[string]any{
						"event": event.String(),
					})
					time.Sleep(100 * time.Millisecond) // Small delay to ensure file is fully written
					s.start(loadSchedule())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("SCHEDULE_WATCHER_ERROR", err, nil)
			}
		}
	}()

	// Watch the directory so replace-by-rename edits are seen too
	return watcher.Add(filepath.Dir(path))
}
